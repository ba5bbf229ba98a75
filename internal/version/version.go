// Package version holds the tool version. The result cache persists it and
// discards all entries on a mismatch, so bumping the version invalidates
// prior runs wholesale.
package version

// Version is the tool version, overridable at build time with
// -ldflags "-X github.com/robocop-go/robocop/internal/version.Version=...".
var Version = "0.2.0"
