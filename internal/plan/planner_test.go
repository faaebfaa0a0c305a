package plan

import (
	"errors"
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

func sampleFindings() []scan.Finding {
	return []scan.Finding{
		{Name: "User caches", SizeBytes: 100, FileCount: 10},
		{Name: "Xcode derived data", SizeBytes: 500, FileCount: 5},
		{Name: "Homebrew cache", SizeBytes: 50, FileCount: 2},
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"dry_run": ModeDryRun,
		"soft":    ModeSoft,
		"hard":    ModeHard,
	}
	for s, want := range cases {
		got, err := ParseMode(s)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", s, got, err, want)
		}
	}

	if _, err := ParseMode("gentle"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(gentle) err = %v, want ErrUnknownMode", err)
	}
}

func TestNewWithEmptySelectionKeepsAll(t *testing.T) {
	p := New(ModeSoft, sampleFindings(), nil)
	if len(p.Findings) != 3 {
		t.Fatalf("findings = %d, want all 3", len(p.Findings))
	}
	if p.TotalBytes() != 650 || p.TotalFiles() != 17 {
		t.Errorf("totals = %d bytes, %d files", p.TotalBytes(), p.TotalFiles())
	}
}

func TestNewFiltersBySelection(t *testing.T) {
	p := New(ModeDryRun, sampleFindings(), []string{"Homebrew cache", "User caches"})
	if len(p.Findings) != 2 {
		t.Fatalf("findings = %d, want 2", len(p.Findings))
	}
	// Original finding order is preserved, not selection order.
	if p.Findings[0].Name != "User caches" || p.Findings[1].Name != "Homebrew cache" {
		t.Errorf("findings = %+v", p.Findings)
	}
}

func TestNewIgnoresUnknownSelectionNames(t *testing.T) {
	p := New(ModeSoft, sampleFindings(), []string{"No such finding", "Homebrew cache"})
	if len(p.Findings) != 1 || p.Findings[0].Name != "Homebrew cache" {
		t.Errorf("findings = %+v, want just Homebrew cache", p.Findings)
	}
}

func TestNewCopiesFindings(t *testing.T) {
	src := sampleFindings()
	p := New(ModeSoft, src, nil)
	src[0].Name = "mutated"
	if p.Findings[0].Name == "mutated" {
		t.Error("plan shares backing array with caller")
	}
}
