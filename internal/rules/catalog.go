package rules

// Rule describes one category of cleanable or auditable filesystem content.
// Patterns support ~ expansion and shell globs; a pattern that resolves to
// nothing is simply skipped at scan time (the tool may not be installed).
type Rule struct {
	// ID is the stable identifier profiles reference.
	ID string

	// Name is the human-readable display name shown to the user and used
	// for selection filtering.
	Name string

	// Category groups related rules.
	Category Category

	// Patterns is the list of candidate locations.
	Patterns []string

	// Risk is the default danger tier.
	Risk Risk

	// Reason explains why the content is flagged.
	Reason string

	// MinAgeDays, when non-zero, limits matches to files untouched for at
	// least that many days.
	MinAgeDays int
}

// catalog is the static rule knowledge base. Loaded once; never mutated.
var catalog = []Rule{
	// ── Caches and temp ─────────────────────────────────────────
	{
		ID:       "user-caches",
		Name:     "User Cache Files",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Caches"},
		Risk:     RiskSafe,
		Reason:   "Application caches that are regenerated automatically",
	},
	{
		ID:       "quicklook-thumbnails",
		Name:     "QuickLook Thumbnails",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Caches/com.apple.QuickLook.thumbnailcache"},
		Risk:     RiskSafe,
		Reason:   "Thumbnail preview caches, regenerated on demand",
	},
	{
		ID:         "temp-files",
		Name:       "Temporary Files",
		Category:   CategoryCache,
		Patterns:   []string{"/tmp", "/var/folders"},
		Risk:       RiskSafe,
		Reason:     "Temporary files created by the system and apps",
		MinAgeDays: 1,
	},
	{
		ID:       "user-trash",
		Name:     "User Trash",
		Category: CategoryCache,
		Patterns: []string{"~/.Trash"},
		Risk:     RiskSafe,
		Reason:   "Files already moved to the trash bin",
	},
	{
		ID:       "external-trash",
		Name:     "External Drive Trash",
		Category: CategoryCache,
		Patterns: []string{"/Volumes/*/.Trashes"},
		Risk:     RiskSafe,
		Reason:   "Trash folders on external drives",
	},
	{
		ID:       "mail-downloads",
		Name:     "Mail Downloads",
		Category: CategoryCache,
		Patterns: []string{
			"~/Library/Mail Downloads",
			"~/Library/Containers/com.apple.mail/Data/Library/Mail Downloads",
		},
		Risk:   RiskSafe,
		Reason: "Cached mail attachments, re-downloaded from the mail server",
	},
	{
		ID:         "downloaded-installers",
		Name:       "Downloaded Disk Images",
		Category:   CategoryCache,
		Patterns:   []string{"~/Downloads/*.dmg", "~/Downloads/*.pkg"},
		Risk:       RiskCaution,
		Reason:     "Installer disk images, usually disposable after installation",
		MinAgeDays: 7,
	},

	// ── Developer caches ────────────────────────────────────────
	{
		ID:       "xcode-derived-data",
		Name:     "Xcode DerivedData",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Developer/Xcode/DerivedData"},
		Risk:     RiskSafe,
		Reason:   "Build artifacts that Xcode regenerates on the next build",
	},
	{
		ID:         "xcode-archives",
		Name:       "Xcode Archives",
		Category:   CategoryCache,
		Patterns:   []string{"~/Library/Developer/Xcode/Archives"},
		Risk:       RiskRisky,
		Reason:     "App Store submission archives; needed to symbolicate shipped builds",
		MinAgeDays: 90,
	},
	{
		ID:       "ios-simulators",
		Name:     "iOS Simulators",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Developer/CoreSimulator/Devices"},
		Risk:     RiskCaution,
		Reason:   "Simulator runtimes and device data, re-downloadable",
	},
	{
		ID:       "homebrew-cache",
		Name:     "Homebrew Cache",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Caches/Homebrew"},
		Risk:     RiskSafe,
		Reason:   "Downloaded package archives, re-fetched on demand",
	},
	{
		ID:       "pip-cache",
		Name:     "pip Cache",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Caches/pip"},
		Risk:     RiskSafe,
		Reason:   "Python package download cache",
	},
	{
		ID:       "npm-cache",
		Name:     "npm Cache",
		Category: CategoryCache,
		Patterns: []string{"~/.npm/_cacache"},
		Risk:     RiskSafe,
		Reason:   "npm package cache, re-downloaded on demand",
	},
	{
		ID:       "yarn-cache",
		Name:     "Yarn Cache",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Caches/Yarn"},
		Risk:     RiskSafe,
		Reason:   "Yarn package cache",
	},
	{
		ID:       "cocoapods-cache",
		Name:     "CocoaPods Cache",
		Category: CategoryCache,
		Patterns: []string{"~/Library/Caches/CocoaPods"},
		Risk:     RiskSafe,
		Reason:   "CocoaPods spec and download cache",
	},
	{
		ID:       "cargo-cache",
		Name:     "Cargo Registry Cache",
		Category: CategoryCache,
		Patterns: []string{"~/.cargo/registry/cache", "~/.cargo/registry/src"},
		Risk:     RiskSafe,
		Reason:   "Rust crate download cache",
	},
	{
		ID:       "gradle-cache",
		Name:     "Gradle Cache",
		Category: CategoryCache,
		Patterns: []string{"~/.gradle/caches"},
		Risk:     RiskSafe,
		Reason:   "Gradle build cache and dependency downloads",
	},
	{
		ID:       "maven-repository",
		Name:     "Maven Local Repository",
		Category: CategoryCache,
		Patterns: []string{"~/.m2/repository"},
		Risk:     RiskCaution,
		Reason:   "Maven dependency cache; may hold locally installed artifacts",
	},
	{
		ID:       "conda-cache",
		Name:     "Conda Package Cache",
		Category: CategoryCache,
		Patterns: []string{"~/.conda/pkgs"},
		Risk:     RiskSafe,
		Reason:   "Conda downloaded packages",
	},
	{
		ID:       "go-module-cache",
		Name:     "Go Module Cache",
		Category: CategoryCache,
		Patterns: []string{"~/go/pkg/mod/cache"},
		Risk:     RiskSafe,
		Reason:   "Go module download cache",
	},

	// ── Logs ────────────────────────────────────────────────────
	{
		ID:       "user-logs",
		Name:     "User Log Files",
		Category: CategoryLog,
		Patterns: []string{"~/Library/Logs"},
		Risk:     RiskSafe,
		Reason:   "Application logs, safe to remove",
	},
	{
		ID:         "system-logs",
		Name:       "System Log Files",
		Category:   CategoryLog,
		Patterns:   []string{"/var/log"},
		Risk:       RiskCaution,
		Reason:     "System logs; only old entries are flagged",
		MinAgeDays: 7,
	},
	{
		ID:       "crash-reports",
		Name:     "Crash Reports",
		Category: CategoryLog,
		Patterns: []string{"~/Library/Logs/DiagnosticReports"},
		Risk:     RiskSafe,
		Reason:   "Application crash reports, disposable unless debugging",
	},

	// ── App leftovers ───────────────────────────────────────────
	{
		ID:       "saved-app-state",
		Name:     "Saved Application State",
		Category: CategoryLeftover,
		Patterns: []string{"~/Library/Saved Application State"},
		Risk:     RiskCaution,
		Reason:   "Window-restore state; apps recreate it on next launch",
	},

	// ── Docker ──────────────────────────────────────────────────
	{
		ID:       "docker-data",
		Name:     "Docker Data",
		Category: CategoryDocker,
		Patterns: []string{"~/Library/Containers/com.docker.docker/Data"},
		Risk:     RiskCaution,
		Reason:   "Docker images, containers, and volumes; prune for granular control",
	},
	{
		ID:       "docker-config-cache",
		Name:     "Docker Config Cache",
		Category: CategoryDocker,
		Patterns: []string{"~/.docker/contexts", "~/.docker/scan"},
		Risk:     RiskSafe,
		Reason:   "Docker CLI caches and stale contexts",
	},

	// ── Privacy (audited in full by the privacy scan, never selected
	//    through profiles) ────────────────────────────────────────
	{
		ID:       "http-storages",
		Name:     "HTTP Storage Caches",
		Category: CategoryPrivacy,
		Patterns: []string{"~/Library/HTTPStorages"},
		Risk:     RiskCaution,
		Reason:   "Per-app HTTP caches that can embed identifiers and cookies",
	},
	{
		ID:       "binary-cookies",
		Name:     "Cookie Stores",
		Category: CategoryPrivacy,
		Patterns: []string{"~/Library/Cookies"},
		Risk:     RiskCaution,
		Reason:   "Binary cookie stores outside the browsers",
	},
}

// Catalog returns a copy of the full static rule set.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a single rule.
func ByID(id string) (Rule, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// PrivacyRules returns the fixed privacy rule set. These are always audited
// in full and never appear in profile selections.
func PrivacyRules() []Rule {
	var out []Rule
	for _, r := range catalog {
		if r.Category == CategoryPrivacy {
			out = append(out, r)
		}
	}
	return out
}
