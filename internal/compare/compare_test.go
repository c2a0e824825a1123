package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(times ...float64) []Sample {
	out := make([]Sample, len(times))
	for i, t := range times {
		out[i] = Sample{Success: true, LambdaTimeMs: t, MemoryUsedMB: 100, ColdStart: i == 0}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(append(samples(100, 200, 300), Sample{Error: "timeout"}))
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 200, s.AvgTimeMs, 1e-9)
	assert.Equal(t, 100.0, s.MinTimeMs)
	assert.Equal(t, 300.0, s.MaxTimeMs)
	assert.InDelta(t, 100, s.StdDevMs, 1e-9)
	assert.InDelta(t, 100, s.AvgMemoryMB, 1e-9)
	assert.Equal(t, 1, s.ColdStarts)

	assert.Zero(t, Summarize(samples(42)).StdDevMs)
}

func TestAnalyzeWinner(t *testing.T) {
	a, err := Analyze("sort_intensive", samples(80, 80), samples(100, 100))
	require.NoError(t, err)
	assert.Equal(t, ARM64, a.Winner)
	assert.Equal(t, "20.0% faster", a.PerformanceImprovement)
	assert.Equal(t, 2, a.TestCount)

	a, err = Analyze("sort_intensive", samples(150), samples(100))
	require.NoError(t, err)
	assert.Equal(t, X86, a.Winner)
	assert.Equal(t, "50.0% faster", a.PerformanceImprovement)
}

func TestAnalyzeInsufficientData(t *testing.T) {
	_, err := Analyze("memory_intensive", samples(10), []Sample{{Error: "HTTP 500"}})
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestScore(t *testing.T) {
	arm := &Analysis{Winner: ARM64}
	x86 := &Analysis{Winner: X86}
	none := &Analysis{}

	a, x := Score([]*Analysis{arm, arm, x86, none})
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, x)
	assert.Equal(t, ARM64, OverallWinner([]*Analysis{arm, arm, x86}))
	assert.Equal(t, X86, OverallWinner([]*Analysis{x86}))
	assert.Equal(t, "tie", OverallWinner([]*Analysis{arm, x86}))
}

func TestSampleFromResponse(t *testing.T) {
	body := []byte(`{"success":true,"architecture":"arm64","cold_start":true,
		"performance_metrics":{"execution_time_ms":12.5,"memory_used_mb":64,"data_size":500}}`)
	s := SampleFromResponse(body, 40)
	assert.True(t, s.Success)
	assert.Equal(t, 12.5, s.LambdaTimeMs)
	assert.Equal(t, 64.0, s.MemoryUsedMB)
	assert.Equal(t, 500, s.DataSize)
	assert.True(t, s.ColdStart)
	assert.Equal(t, "arm64", s.Architecture)
	assert.Equal(t, 40.0, s.HTTPTimeMs)

	s = SampleFromResponse([]byte(`{"success":true}`), 1)
	assert.Zero(t, s.DataSize)
}

func fakeDeployment(arch string, execMs float64) *httptest.Server {
	calls := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil || payload["operation"] != "sort_intensive" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		calls++
		fmt.Fprintf(w, `{"success":true,"architecture":%q,"cold_start":%t,"performance_metrics":{"execution_time_ms":%f,"memory_used_mb":50}}`,
			arch, calls == 1, execMs)
	}))
}

func TestRunnerAgainstDeployments(t *testing.T) {
	arm := fakeDeployment("arm64", 90)
	defer arm.Close()
	x86 := fakeDeployment("x86_64", 100)
	defer x86.Close()

	progress := 0
	r := &Runner{
		ARM64URL: arm.URL,
		X86URL:   x86.URL,
		Progress: func(int, string, Sample) { progress++ },
	}
	a, err := r.Run(context.Background(), "sort_intensive", map[string]any{"data_size": 100}, 3)
	require.NoError(t, err)

	assert.Equal(t, 6, progress)
	assert.Equal(t, 3, a.TestCount)
	assert.Equal(t, 1, a.ARM64.ColdStarts)
	assert.Equal(t, 1, a.X86.ColdStarts)
	assert.Equal(t, ARM64, a.Winner)
	assert.Equal(t, "10.0% faster", a.PerformanceImprovement)
}

func TestHTTPInvokerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":"bad"}`))
	}))
	defer srv.Close()

	s := HTTPInvoker{}.Invoke(context.Background(), srv.URL, []byte(`{}`))
	assert.False(t, s.Success)
	assert.Contains(t, s.Error, "HTTP 400")
}
