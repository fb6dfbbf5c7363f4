package install

import (
	"context"
	"fmt"
	"os/exec"
)

// UnsupportedPlatformError reports a host OS with no NiftyReg release.
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.OS)
}

// CUDAProbeFunc reports whether CUDA acceleration is usable.
type CUDAProbeFunc func(ctx context.Context) bool

// NvidiaSMIProbe runs nvidia-smi and reports whether it exited 0.
// A missing nvidia-smi means no CUDA.
func NvidiaSMIProbe(ctx context.Context) bool {
	return exec.CommandContext(ctx, "nvidia-smi").Run() == nil
}

// PlatformName maps an OS/arch pair to the release archive variant.
func PlatformName(goos, goarch string, cuda bool) (string, error) {
	switch goos {
	case "linux":
		if cuda {
			return "Ubuntu-CUDA", nil
		}
		return "Ubuntu", nil
	case "darwin":
		if goarch == "amd64" || goarch == "386" {
			return "macOS-Intel", nil
		}
		return "macOS", nil
	case "windows":
		if cuda {
			return "Windows-CUDA", nil
		}
		return "Windows", nil
	default:
		return "", &UnsupportedPlatformError{OS: goos}
	}
}
