package apps

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/IGLOU-EU/go-wildcard"

	"github.com/lakshaymaurya-felt/macmole/internal/rules"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// leftoverLocation describes one place an application leaves data behind.
// Exactly one of path or pattern is used: path is joined with the
// identifier directly, pattern is wildcard-matched against the entries of
// dir with %s substituted by the identifier.
type leftoverLocation struct {
	kind    string
	path    string
	pattern string
	dir     string
}

// leftoverLocations cover the standard per-user library spots, keyed on the
// app's bundle identifier or display name.
var leftoverLocations = []leftoverLocation{
	{kind: "App Support", path: "Library/Application Support/%s"},
	{kind: "Cache", path: "Library/Caches/%s"},
	{kind: "Preferences", path: "Library/Preferences/%s.plist"},
	{kind: "Preferences", dir: "Library/Preferences/ByHost", pattern: "%s.*"},
	{kind: "Saved State", path: "Library/Saved Application State/%s.savedState"},
	{kind: "Container", path: "Library/Containers/%s"},
	{kind: "Group Container", dir: "Library/Group Containers", pattern: "*%s*"},
	{kind: "Cookies", path: "Library/Cookies/%s.binarycookies"},
	{kind: "HTTP Storage", path: "Library/HTTPStorages/%s"},
	{kind: "WebKit Data", path: "Library/WebKit/%s"},
	{kind: "Logs", path: "Library/Logs/%s"},
	{kind: "Launch Agent", dir: "Library/LaunchAgents", pattern: "%s*.plist"},
	{kind: "Crash Reports", dir: "Library/Logs/DiagnosticReports", pattern: "%s*"},
}

// Leftovers finds the files an app has scattered across the user library,
// searching under both the bundle identifier and the display name. Results
// are regular findings so they flow through the same plan and execution
// path as profile cleans.
func Leftovers(ctx context.Context, app App) []scan.Finding {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	identifiers := []string{app.Name}
	if app.BundleID != "" {
		identifiers = append([]string{app.BundleID}, identifiers...)
	}

	seen := make(map[string]bool)
	var findings []scan.Finding

	for _, id := range identifiers {
		for _, loc := range leftoverLocations {
			if err := ctx.Err(); err != nil {
				return findings
			}
			for _, target := range loc.resolve(home, id) {
				real := scan.RealPath(target)
				if seen[real] {
					continue
				}
				seen[real] = true

				size, files, newest, err := scan.PathStats(target, 0, nil)
				if err != nil || (size == 0 && files == 0) {
					continue
				}
				findings = append(findings, scan.Finding{
					Path:       target,
					RuleID:     "app-leftover",
					Name:       loc.kind + " (" + filepath.Base(target) + ")",
					Category:   rules.CategoryLeftover,
					Categories: []rules.Category{rules.CategoryLeftover},
					SizeBytes:  size,
					FileCount:  files,
					ModTime:    newest,
					Risk:       rules.RiskCaution,
					Reason:     loc.kind + " data for " + app.Name,
				})
			}
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].SizeBytes > findings[j].SizeBytes
	})
	return findings
}

// resolve turns a location into zero or more concrete candidate paths for
// one identifier.
func (loc leftoverLocation) resolve(home, id string) []string {
	if loc.path != "" {
		return []string{filepath.Join(home, expand(loc.path, id))}
	}

	dir := filepath.Join(home, loc.dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	pattern := expand(loc.pattern, id)

	var out []string
	for _, entry := range entries {
		if wildcard.Match(pattern, entry.Name()) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out
}

// expand substitutes the identifier into a location template.
func expand(template, id string) string {
	out := make([]byte, 0, len(template)+len(id))
	for i := 0; i < len(template); i++ {
		if template[i] == '%' && i+1 < len(template) && template[i+1] == 's' {
			out = append(out, id...)
			i++
			continue
		}
		out = append(out, template[i])
	}
	return string(out)
}
