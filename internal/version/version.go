package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/scawful/barista/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/scawful/barista/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/scawful/barista/internal/version.Date={{.Date}}
)

// Info is the build information reported by the version command
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}
