package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/grussorusso/archbench/utils"
	"go.uber.org/zap"
)

// Invoker sends one benchmark request to a deployment.
type Invoker interface {
	Invoke(ctx context.Context, url string, payload []byte) Sample
}

// HTTPInvoker posts the request to an API Gateway (or local server) endpoint.
type HTTPInvoker struct{}

func (HTTPInvoker) Invoke(ctx context.Context, url string, payload []byte) Sample {
	start := time.Now()
	resp, err := utils.PostJsonWithContext(ctx, url, payload)
	elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
	if err != nil {
		msg := err.Error()
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			msg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return Sample{Error: msg}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Sample{Error: err.Error()}
	}
	return SampleFromResponse(body, elapsed)
}

// Runner alternates requests between the two deployments to reduce bias
// from warm-up effects.
type Runner struct {
	Invoker  Invoker
	ARM64URL string
	X86URL   string
	// Pause is the delay between consecutive requests.
	Pause time.Duration
	// Progress, if set, is called after every request.
	Progress func(iteration int, arch string, s Sample)
}

func (r *Runner) pause(ctx context.Context) error {
	if r.Pause <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.Pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run sends n requests for operation to each deployment and analyzes them.
func (r *Runner) Run(ctx context.Context, operation string, params map[string]any, n int) (*Analysis, error) {
	payload := map[string]any{"operation": operation}
	for k, v := range params {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	invoker := r.Invoker
	if invoker == nil {
		invoker = HTTPInvoker{}
	}

	var arm64, x86 []Sample
	for i := 0; i < n; i++ {
		for _, target := range []struct {
			arch string
			url  string
			out  *[]Sample
		}{{ARM64, r.ARM64URL, &arm64}, {X86, r.X86URL, &x86}} {
			if i > 0 || target.arch != ARM64 {
				if err := r.pause(ctx); err != nil {
					return nil, err
				}
			}
			s := invoker.Invoke(ctx, target.url, body)
			if !s.Success {
				zap.L().Warn("Request failed", zap.String("architecture", target.arch), zap.String("error", s.Error))
			}
			*target.out = append(*target.out, s)
			if r.Progress != nil {
				r.Progress(i+1, target.arch, s)
			}
		}
	}

	return Analyze(operation, arm64, x86)
}
