package privacy

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// DataStore is one privacy-relevant artifact inside a browser profile.
type DataStore struct {
	Kind      string `json:"kind"` // cookies, history, local_storage, cache, extensions
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// BrowserProfile is one discovered browser profile and its measured
// privacy surface.
type BrowserProfile struct {
	Browser    string      `json:"browser"`
	Profile    string      `json:"profile_path"`
	Stores     []DataStore `json:"stores"`
	TotalBytes int64       `json:"total_bytes"`
}

// CookieLocation is a cookie or HTTP storage area outside browser profiles.
type CookieLocation struct {
	Path      string `json:"path"`
	AppName   string `json:"app_name"`
	SizeBytes int64  `json:"size_bytes"`
}

// Report is the outcome of one audit. The audit only reads: nothing in it
// has been modified or removed.
type Report struct {
	Browsers        []BrowserProfile `json:"browsers"`
	CookieLocations []CookieLocation `json:"cookie_locations"`
	TotalBytes      int64            `json:"total_bytes"`
	TotalLocations  int              `json:"total_locations"`
}

// chromiumBrowsers maps Application Support subpaths to display names.
// Every entry stores cookies, history, and local storage under the same
// per-profile layout.
var chromiumBrowsers = []struct {
	rel  string
	name string
}{
	{"Google/Chrome", "Google Chrome"},
	{"Google/Chrome Canary", "Chrome Canary"},
	{"Chromium", "Chromium"},
	{"BraveSoftware/Brave-Browser", "Brave"},
	{"Microsoft Edge", "Microsoft Edge"},
	{"Arc/User Data", "Arc"},
	{"Vivaldi", "Vivaldi"},
	{"com.operasoftware.Opera", "Opera"},
}

// Auditor inventories browser profiles and system cookie stores.
type Auditor struct {
	home   string
	logger *logging.Logger
}

// NewAuditor builds an auditor over the given home directory; an empty home
// resolves to the current user's.
func NewAuditor(home string, logger *logging.Logger) *Auditor {
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return &Auditor{home: home, logger: logger}
}

// Audit walks every known privacy surface. Cancelling ctx returns what has
// accumulated so far.
func (a *Auditor) Audit(ctx context.Context) *Report {
	r := &Report{}

	a.auditChromium(ctx, r)
	a.auditFirefox(ctx, r)
	a.auditSafari(r)
	a.auditCookieStores(ctx, r)

	for _, b := range r.Browsers {
		r.TotalBytes += b.TotalBytes
		r.TotalLocations += len(b.Stores)
	}
	for _, c := range r.CookieLocations {
		r.TotalBytes += c.SizeBytes
		r.TotalLocations++
	}

	sort.SliceStable(r.Browsers, func(i, j int) bool {
		return r.Browsers[i].TotalBytes > r.Browsers[j].TotalBytes
	})
	sort.SliceStable(r.CookieLocations, func(i, j int) bool {
		return r.CookieLocations[i].SizeBytes > r.CookieLocations[j].SizeBytes
	})
	return r
}

func (a *Auditor) auditChromium(ctx context.Context, r *Report) {
	appSupport := filepath.Join(a.home, "Library", "Application Support")

	for _, browser := range chromiumBrowsers {
		if ctx.Err() != nil {
			return
		}
		base := filepath.Join(appSupport, browser.rel)

		profileDirs := []string{filepath.Join(base, "Default")}
		if entries, err := os.ReadDir(base); err == nil {
			for _, entry := range entries {
				if strings.HasPrefix(entry.Name(), "Profile ") {
					profileDirs = append(profileDirs, filepath.Join(base, entry.Name()))
				}
			}
		}

		for _, dir := range profileDirs {
			profile := a.measureProfile(browser.name, dir, []DataStore{
				{Kind: "cookies", Path: filepath.Join(dir, "Cookies")},
				{Kind: "history", Path: filepath.Join(dir, "History")},
				{Kind: "local_storage", Path: filepath.Join(dir, "Local Storage")},
				{Kind: "cache", Path: filepath.Join(dir, "Cache")},
				{Kind: "extensions", Path: filepath.Join(dir, "Extensions")},
			})
			if profile != nil {
				r.Browsers = append(r.Browsers, *profile)
			}
		}
	}
}

func (a *Auditor) auditFirefox(ctx context.Context, r *Report) {
	base := filepath.Join(a.home, "Library", "Application Support", "Firefox", "Profiles")
	entries, err := os.ReadDir(base)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(base, entry.Name())
		profile := a.measureProfile("Firefox", dir, []DataStore{
			{Kind: "cookies", Path: filepath.Join(dir, "cookies.sqlite")},
			{Kind: "history", Path: filepath.Join(dir, "places.sqlite")},
			{Kind: "local_storage", Path: filepath.Join(dir, "webappsstore.sqlite")},
			{Kind: "cache", Path: filepath.Join(dir, "cache2")},
			{Kind: "extensions", Path: filepath.Join(dir, "extensions")},
		})
		if profile != nil {
			r.Browsers = append(r.Browsers, *profile)
		}
	}
}

func (a *Auditor) auditSafari(r *Report) {
	safari := filepath.Join(a.home, "Library", "Safari")
	if _, err := os.Stat(safari); err != nil {
		return
	}
	profile := a.measureProfile("Safari", safari, []DataStore{
		{Kind: "cookies", Path: filepath.Join(a.home, "Library", "Cookies", "Cookies.binarycookies")},
		{Kind: "history", Path: filepath.Join(safari, "History.db")},
		{Kind: "local_storage", Path: filepath.Join(safari, "LocalStorage")},
		{Kind: "cache", Path: filepath.Join(a.home, "Library", "Caches", "com.apple.Safari")},
	})
	if profile != nil {
		r.Browsers = append(r.Browsers, *profile)
	}
}

// measureProfile sizes each candidate store and keeps the ones that exist.
// A profile with no measurable data is dropped entirely.
func (a *Auditor) measureProfile(browser, dir string, candidates []DataStore) *BrowserProfile {
	p := &BrowserProfile{Browser: browser, Profile: dir}
	for _, store := range candidates {
		size, _, _, err := scan.PathStats(store.Path, 0, nil)
		if err != nil || size == 0 {
			continue
		}
		store.SizeBytes = size
		p.Stores = append(p.Stores, store)
		p.TotalBytes += size
	}
	if p.TotalBytes == 0 {
		return nil
	}
	return p
}

// auditCookieStores inventories ~/Library/Cookies, HTTPStorages, and WebKit
// data, which hold per-app cookies and web state outside any browser.
func (a *Auditor) auditCookieStores(ctx context.Context, r *Report) {
	cookieDir := filepath.Join(a.home, "Library", "Cookies")
	if entries, err := os.ReadDir(cookieDir); err == nil {
		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(cookieDir, entry.Name())
			size, _, _, err := scan.PathStats(path, 0, nil)
			if err != nil || size == 0 {
				continue
			}
			r.CookieLocations = append(r.CookieLocations, CookieLocation{
				Path:      path,
				AppName:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
				SizeBytes: size,
			})
		}
	}

	for _, rel := range []string{"HTTPStorages", "WebKit"} {
		dir := filepath.Join(a.home, "Library", rel)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			size, _, _ := scan.DirStats(path, 0, nil)
			if size == 0 {
				continue
			}
			r.CookieLocations = append(r.CookieLocations, CookieLocation{
				Path:      path,
				AppName:   entry.Name(),
				SizeBytes: size,
			})
		}
	}
}
