package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lakshaymaurya-felt/macmole/internal/format"
)

// protectedPaths must never be deleted, whatever a plan says. This is the
// safety net against bugs in rule patterns or callers.
var protectedPaths = []string{
	"/",
	"/System",
	"/Applications",
	"/Users",
	"/Library",
	"/usr",
	"/bin",
	"/sbin",
	"/var",
	"/etc",
	"/opt",
	"/private",
	"/cores",
	"/Volumes",
}

// protectedHomeDirs are home subdirectories that must never be deleted as a
// whole. Content inside them can still be cleaned.
var protectedHomeDirs = []string{
	"", // the home directory itself
	"Desktop",
	"Documents",
	"Downloads",
	"Pictures",
	"Music",
	"Movies",
	"Library",
	"Applications",
	".ssh",
	".gnupg",
}

// IsProtected reports whether a path may never be removed.
func IsProtected(path string) bool {
	clean := filepath.Clean(path)

	for _, p := range protectedPaths {
		if clean == p {
			return true
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	for _, dir := range protectedHomeDirs {
		protected := home
		if dir != "" {
			protected = filepath.Join(home, dir)
		}
		if clean == protected {
			return true
		}
	}
	return false
}

// Per-operation sanity limits against runaway deletion bugs.
const (
	maxFilesPerOperation = 100_000
	maxBytesPerOperation = 50 * format.GB
)

// validateBatch rejects plans whose scale suggests a scan bug rather than a
// cleanup. Request-level: nothing has been touched when it fires.
func validateBatch(fileCount int, totalBytes int64) error {
	if fileCount > maxFilesPerOperation {
		return fmt.Errorf("operation would affect %d files (limit %d)", fileCount, maxFilesPerOperation)
	}
	if totalBytes > maxBytesPerOperation {
		return fmt.Errorf("operation would remove %s (limit %s)",
			format.Size(totalBytes), format.Size(maxBytesPerOperation))
	}
	return nil
}
