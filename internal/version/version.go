// Package version holds the build version, overridden at link time:
//
//	go build -ldflags "-X cleavr/internal/version.Version=v1.2.3" ./cmd/cleavr
package version

var Version = "dev"
