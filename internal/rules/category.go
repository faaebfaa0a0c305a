package rules

import "fmt"

// Category classifies what kind of artifact a rule discovers.
type Category int

const (
	CategoryCache Category = iota
	CategoryLog
	CategoryLeftover
	CategoryDocker
	CategoryPrivacy
)

var categoryNames = map[Category]string{
	CategoryCache:    "cache",
	CategoryLog:      "log",
	CategoryLeftover: "leftover",
	CategoryDocker:   "docker",
	CategoryPrivacy:  "privacy",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory converts a boundary string into a Category.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Risk is the default danger tier for removing what a rule finds.
type Risk int

const (
	// RiskSafe content regenerates automatically (caches, temp files).
	RiskSafe Risk = iota
	// RiskCaution content is rebuildable but removal has a cost.
	RiskCaution
	// RiskRisky content may be hard or impossible to recreate.
	RiskRisky
)

var riskNames = map[Risk]string{
	RiskSafe:    "safe",
	RiskCaution: "caution",
	RiskRisky:   "risky",
}

func (r Risk) String() string {
	if name, ok := riskNames[r]; ok {
		return name
	}
	return fmt.Sprintf("risk(%d)", int(r))
}

// ParseRisk converts a boundary string into a Risk tier.
func ParseRisk(s string) (Risk, error) {
	for r, name := range riskNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown risk tier %q", s)
}
