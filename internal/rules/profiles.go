package rules

import (
	"errors"
	"fmt"
)

// ErrUnknownProfile is returned when a profile name is not recognized.
var ErrUnknownProfile = errors.New("unknown profile")

// ProfileInfo is the discovery view of a profile.
type ProfileInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RuleCount   int    `json:"rule_count"`
}

type profile struct {
	name        string
	description string
	ruleIDs     []string
}

var quickRuleIDs = []string{
	"user-caches",
	"quicklook-thumbnails",
	"temp-files",
	"user-trash",
	"user-logs",
}

var developerRuleIDs = append(append([]string{}, quickRuleIDs...),
	"crash-reports",
	"system-logs",
	"downloaded-installers",
	"xcode-derived-data",
	"ios-simulators",
	"homebrew-cache",
	"pip-cache",
	"npm-cache",
	"yarn-cache",
	"cocoapods-cache",
	"cargo-cache",
	"gradle-cache",
	"conda-cache",
	"go-module-cache",
	"docker-data",
	"docker-config-cache",
)

var creativeRuleIDs = append(append([]string{}, quickRuleIDs...),
	"crash-reports",
	"mail-downloads",
	"downloaded-installers",
	"external-trash",
)

var deepRuleIDs = append(append([]string{}, developerRuleIDs...),
	"mail-downloads",
	"external-trash",
	"xcode-archives",
	"maven-repository",
	"saved-app-state",
)

// profiles is the fixed registry. Order within a profile is rule priority:
// when two rules resolve to the same real path, the earlier rule wins.
var profiles = []profile{
	{
		name:        "quick",
		description: "Fast daily cleanup: caches, temp files, trash",
		ruleIDs:     quickRuleIDs,
	},
	{
		name:        "developer",
		description: "Developer cache cleanup: Xcode, Docker, npm, pip, and more",
		ruleIDs:     developerRuleIDs,
	},
	{
		name:        "creative",
		description: "Clean up after creative work: render caches, mail attachments, scratch files",
		ruleIDs:     creativeRuleIDs,
	},
	{
		name:        "deep",
		description: "Thorough cleanup: everything including archives and app leftovers",
		ruleIDs:     deepRuleIDs,
	},
}

// Resolve returns the ordered rule set a profile activates.
func Resolve(name string) ([]Rule, error) {
	for _, p := range profiles {
		if p.name != name {
			continue
		}
		out := make([]Rule, 0, len(p.ruleIDs))
		for _, id := range p.ruleIDs {
			rule, ok := ByID(id)
			if !ok {
				// A profile referencing a missing rule is a programming
				// error in the static tables.
				panic(fmt.Sprintf("profile %q references unknown rule %q", name, id))
			}
			out = append(out, rule)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q (available: quick, developer, creative, deep)", ErrUnknownProfile, name)
}

// List returns discovery metadata for every registered profile.
func List() []ProfileInfo {
	out := make([]ProfileInfo, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, ProfileInfo{
			Name:        p.name,
			Description: p.description,
			RuleCount:   len(p.ruleIDs),
		})
	}
	return out
}
