// Package version reports the build of bbreplay. Set it with:
//
//	go build -ldflags "-X github.com/IBBoard/bbreplay-sub000/internal/version.Version=v0.3.0" ./cmd/bbreplay
package version

import "fmt"

// Version defaults to "dev" outside release builds.
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// UserAgent names the build in HTTP responses and logs.
func UserAgent() string {
	return fmt.Sprintf("bbreplay/%s", Version)
}
