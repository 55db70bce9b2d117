// Package version holds the build version stamped into binaries.
package version

// Version is the paddock release. Overridden at build time via
// -ldflags "-X github.com/apexsim/paddock/internal/version.Version=v1.2.3".
var Version = "0.1.0-dev"
