package plan

import (
	"fmt"

	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// Mode is the execution aggressiveness for a clean plan.
type Mode int

const (
	// ModeDryRun computes what would happen without touching anything.
	ModeDryRun Mode = iota
	// ModeSoft moves targets to quarantine so the session can be restored.
	ModeSoft
	// ModeHard removes targets permanently. No undo.
	ModeHard
)

var modeNames = map[Mode]string{
	ModeDryRun: "dry_run",
	ModeSoft:   "soft",
	ModeHard:   "hard",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ErrUnknownMode is wrapped by ParseMode failures.
var ErrUnknownMode = fmt.Errorf("unknown mode")

// ParseMode converts a boundary string into a Mode. This is the only place
// mode strings are interpreted.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (recognized: dry_run, soft, hard)", ErrUnknownMode, s)
}

// Plan is the concrete set of findings and mode chosen for one execution.
// It is ephemeral: built, executed, discarded.
type Plan struct {
	Mode     Mode
	Findings []scan.Finding
}

// New filters findings by an optional selection of display names and pairs
// them with the requested mode. A nil or empty selection means "clean all".
// Selection entries that match nothing are silently ignored; they may come
// from a different profile's scan. Pure function, no I/O.
func New(mode Mode, findings []scan.Finding, selection []string) Plan {
	if len(selection) == 0 {
		return Plan{Mode: mode, Findings: append([]scan.Finding(nil), findings...)}
	}

	wanted := make(map[string]bool, len(selection))
	for _, name := range selection {
		wanted[name] = true
	}

	var kept []scan.Finding
	for _, f := range findings {
		if wanted[f.Name] {
			kept = append(kept, f)
		}
	}
	return Plan{Mode: mode, Findings: kept}
}

// TotalBytes sums the plan's reclaimable size.
func (p Plan) TotalBytes() int64 {
	var total int64
	for _, f := range p.Findings {
		total += f.SizeBytes
	}
	return total
}

// TotalFiles sums the plan's file count.
func (p Plan) TotalFiles() int {
	var total int
	for _, f := range p.Findings {
		total += f.FileCount
	}
	return total
}
