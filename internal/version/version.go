// Package version provides version information for the nidmfsl CLI.
package version

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// SmoothestInfo describes the smoothness estimator found on this host.
type SmoothestInfo struct {
	// Binary is the configured executable name or path.
	Binary string `json:"binary"`

	// Path is the resolved location, empty when not found.
	Path string `json:"path,omitempty"`

	// Found indicates the binary was located.
	Found bool `json:"found"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("nidmfsl version %s\n  Commit:    %s\n  Built:     %s\n  Go:        %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}

// DetectSmoothest looks binary up in PATH.
// Smoothness is only recomputed when the FEAT stats log is present, so a
// missing binary is reported rather than treated as an error.
func DetectSmoothest(binary string) SmoothestInfo {
	info := SmoothestInfo{Binary: binary}
	path, err := exec.LookPath(binary)
	if err != nil {
		return info
	}
	info.Path = path
	info.Found = true
	return info
}
