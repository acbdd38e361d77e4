package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/envsync/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/envsync/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/envsync/internal/version.Date={{.Date}}
)

// Short returns "envsync <version>", used in man page headers.
func Short() string {
	return fmt.Sprintf("envsync %s", Version)
}
