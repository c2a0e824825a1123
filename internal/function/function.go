package function

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"
)

// Info describes the deployed benchmark function. On Lambda every field comes
// from the runtime environment; elsewhere the defaults apply.
type Info struct {
	FunctionName    string `env:"AWS_LAMBDA_FUNCTION_NAME" envDefault:"unknown" json:"function_name"`
	FunctionVersion string `env:"AWS_LAMBDA_FUNCTION_VERSION" envDefault:"$LATEST" json:"function_version"`
	MemoryLimitMB   int    `env:"AWS_LAMBDA_FUNCTION_MEMORY_SIZE" json:"memory_limit_mb"`
	Region          string `env:"AWS_REGION" json:"region,omitempty"`
	Architecture    string `env:"ARCHITECTURE" json:"architecture"`
	Runtime         string `json:"runtime"`
}

// LoadInfo reads Info from the environment. An empty architecture is resolved
// with fallbackArch and then with the architecture of the running binary.
func LoadInfo(fallbackArch string) (Info, error) {
	info, err := env.ParseAs[Info]()
	if err != nil {
		return Info{}, fmt.Errorf("could not parse function environment: %w", err)
	}
	if info.Architecture == "" {
		info.Architecture = fallbackArch
	}
	if info.Architecture == "" {
		info.Architecture = DetectArchitecture()
	}
	info.Runtime = runtime.Version()
	return info, nil
}

// DetectArchitecture maps GOARCH to the names used by Lambda.
func DetectArchitecture() string {
	switch runtime.GOARCH {
	case "arm64":
		return "arm64"
	case "amd64":
		return "x86_64"
	default:
		return "unknown"
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s:%s (%s)", i.FunctionName, i.FunctionVersion, i.Architecture)
}
