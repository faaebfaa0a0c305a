package apps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"howett.net/plist"

	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// ErrAppNotFound is returned when no installed app matches a requested name.
var ErrAppNotFound = errors.New("application not found")

// App is one discovered .app bundle with its measured footprint.
type App struct {
	Name      string    `json:"name"`
	BundleID  string    `json:"bundle_id,omitempty"`
	Version   string    `json:"version,omitempty"`
	Path      string    `json:"path"`
	Source    string    `json:"source"` // "applications" or "user"
	SizeBytes int64     `json:"size_bytes"`
	LastUsed  time.Time `json:"last_used,omitempty"`
}

// appDir is one location scanned for .app bundles.
type appDir struct {
	path   string
	source string
}

// Registry discovers installed applications from the standard bundle
// directories.
type Registry struct {
	logger *logging.Logger
	dirs   []appDir
}

// NewRegistry builds a registry over /Applications and ~/Applications.
func NewRegistry(logger *logging.Logger) *Registry {
	dirs := []appDir{{path: "/Applications", source: "applications"}}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, appDir{path: filepath.Join(home, "Applications"), source: "user"})
	}
	return &Registry{logger: logger, dirs: dirs}
}

// List enumerates installed applications, largest first. Bundle directories
// that do not exist are skipped; unreadable bundles are logged and skipped.
func (r *Registry) List(ctx context.Context) ([]App, error) {
	seen := make(map[string]bool)
	var apps []App

	for _, dir := range r.dirs {
		entries, err := os.ReadDir(dir.path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return apps, err
			}
			if !strings.HasSuffix(entry.Name(), ".app") {
				continue
			}

			bundle := filepath.Join(dir.path, entry.Name())
			app, err := r.parseBundle(bundle, dir.source)
			if err != nil {
				r.logger.Debugf("skip bundle %s: %v", bundle, err)
				continue
			}

			key := strings.ToLower(app.Name + "|" + app.BundleID)
			if seen[key] {
				continue
			}
			seen[key] = true
			apps = append(apps, app)
		}
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].SizeBytes > apps[j].SizeBytes
	})
	return apps, nil
}

// Find returns the app whose display name or bundle identifier matches,
// case-insensitively.
func (r *Registry) Find(ctx context.Context, name string) (App, error) {
	apps, err := r.List(ctx)
	if err != nil {
		return App{}, err
	}
	want := strings.ToLower(name)
	for _, app := range apps {
		if strings.ToLower(app.Name) == want || strings.ToLower(app.BundleID) == want {
			return app, nil
		}
	}
	return App{}, fmt.Errorf("%w: %q", ErrAppNotFound, name)
}

// bundleInfo is the subset of Info.plist keys the registry reads.
type bundleInfo struct {
	BundleID string `plist:"CFBundleIdentifier"`
	Version  string `plist:"CFBundleShortVersionString"`
}

// parseBundle extracts metadata and measures the bundle on disk.
func (r *Registry) parseBundle(bundle, source string) (App, error) {
	info, err := os.Stat(bundle)
	if err != nil {
		return App{}, err
	}

	app := App{
		Name:   strings.TrimSuffix(filepath.Base(bundle), ".app"),
		Path:   bundle,
		Source: source,
	}

	if bi, err := readInfoPlist(filepath.Join(bundle, "Contents", "Info.plist")); err == nil {
		app.BundleID = bi.BundleID
		app.Version = bi.Version
	}

	size, _, newest := scan.DirStats(bundle, 0, nil)
	app.SizeBytes = size
	if newest.IsZero() {
		newest = info.ModTime()
	}
	app.LastUsed = newest
	return app, nil
}

func readInfoPlist(path string) (bundleInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bundleInfo{}, err
	}
	var bi bundleInfo
	if _, err := plist.Unmarshal(data, &bi); err != nil {
		return bundleInfo{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return bi, nil
}
