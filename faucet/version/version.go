// Package version holds build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Name is the binary name
	Name = "faucetd"
	// Version is the release tag, set with -X github.com/pushchain/svm-faucet/faucet/version.Version=...
	Version = "dev"
	// Revision is the git commit the binary was built from
	Revision = "unknown"
)

// Display returns the version string served by /request_version
func Display() string {
	return fmt.Sprintf("%s %s (revision %s)", Name, Version, Revision)
}

// Info is the full build information printed by the version command
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Current returns the build information of the running binary
func Current() Info {
	return Info{
		Name:      Name,
		Version:   Version,
		Revision:  Revision,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
