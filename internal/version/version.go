// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/version.Version=v1.2.0" ./cmd/docqa
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for logs and user agents.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
