package scan

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/rules"
)

// Finding is one discovered reclaimable artifact: a resolved path plus its
// measured footprint and classification.
type Finding struct {
	// Path is the resolved filesystem path. It existed at scan time.
	Path string `json:"path"`

	// RuleID identifies the rule that produced the finding. When several
	// rules resolve to the same real path, the first rule in profile order
	// owns it and Categories carries the union.
	RuleID     string           `json:"rule_id"`
	Name       string           `json:"name"`
	Category   rules.Category   `json:"-"`
	Categories []rules.Category `json:"-"`

	SizeBytes int64      `json:"size_bytes"`
	FileCount int        `json:"file_count"`
	ModTime   time.Time  `json:"mod_time"`
	Risk      rules.Risk `json:"-"`
	Reason    string     `json:"reason"`
}

// Result is the outcome of one scan. Warnings are non-fatal per-path
// failures; the scan never aborts on them.
type Result struct {
	Findings   []Finding
	Warnings   []string
	TotalBytes int64
	TotalFiles int
	Duration   time.Duration
}

// Scanner walks rule targets concurrently. Each rule's targets are disjoint
// work with no shared mutable state, so a bounded worker pool processes the
// rule list in parallel and results are merged before deduplication.
type Scanner struct {
	workers  int
	excluded func(string) bool

	mu       sync.Mutex
	warnings []string
}

// New creates a scanner. workers <= 0 selects a default bounded by CPU
// count. excluded may be nil.
func New(workers int, excluded func(string) bool) *Scanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}
	return &Scanner{workers: workers, excluded: excluded}
}

func (s *Scanner) warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// rawFinding keeps the producing rule's position so deduplication can honor
// profile priority order after the parallel merge.
type rawFinding struct {
	ruleIdx int
	finding Finding
}

// Scan measures every target of every rule and returns deduplicated,
// ordered findings. Cancelling ctx stops dispatching new work and returns
// whatever accumulated as a valid partial result.
func (s *Scanner) Scan(ctx context.Context, ruleSet []rules.Rule) *Result {
	start := time.Now()

	s.mu.Lock()
	s.warnings = nil
	s.mu.Unlock()

	jobs := make(chan int)
	results := make(chan rawFinding, len(ruleSet))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				s.scanRule(ctx, idx, ruleSet[idx], results)
			}
		}()
	}

	go func() {
	dispatch:
		for i := range ruleSet {
			select {
			case jobs <- i:
			case <-ctx.Done():
				break dispatch
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var raw []rawFinding
	for rf := range results {
		raw = append(raw, rf)
	}

	res := &Result{
		Findings: dedupe(raw),
		Warnings: s.Warnings(),
		Duration: time.Since(start),
	}
	for _, f := range res.Findings {
		res.TotalBytes += f.SizeBytes
		res.TotalFiles += f.FileCount
	}
	return res
}

// scanRule resolves one rule's patterns and measures each existing target.
func (s *Scanner) scanRule(ctx context.Context, idx int, rule rules.Rule, out chan<- rawFinding) {
	minAge := time.Duration(rule.MinAgeDays) * 24 * time.Hour

	for _, target := range ExpandPatterns(rule.Patterns) {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s.excluded != nil && s.excluded(target) {
			continue
		}

		size, files, newest, err := PathStats(target, minAge, s.warn)
		if err != nil {
			// Target absent or unreadable. Absence is expected and silent;
			// anything else is a warning.
			if !isNotExist(err) {
				s.warn("cannot scan " + target + ": " + err.Error())
			}
			continue
		}
		if size == 0 && files == 0 {
			continue
		}

		out <- rawFinding{
			ruleIdx: idx,
			finding: Finding{
				Path:       target,
				RuleID:     rule.ID,
				Name:       rule.Name,
				Category:   rule.Category,
				Categories: []rules.Category{rule.Category},
				SizeBytes:  size,
				FileCount:  files,
				ModTime:    newest,
				Risk:       rule.Risk,
				Reason:     rule.Reason,
			},
		}
	}
}

// dedupe collapses findings that resolve to the same real path. The rule
// earliest in profile order keeps the finding; later rules contribute only
// their category to the union. Output is ordered by category, then size
// descending, which drives default display priority.
func dedupe(raw []rawFinding) []Finding {
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].ruleIdx < raw[j].ruleIdx
	})

	byReal := make(map[string]int)
	var out []Finding
	for _, rf := range raw {
		real := RealPath(rf.finding.Path)
		if i, seen := byReal[real]; seen {
			merged := false
			for _, c := range out[i].Categories {
				if c == rf.finding.Category {
					merged = true
					break
				}
			}
			if !merged {
				out[i].Categories = append(out[i].Categories, rf.finding.Category)
			}
			continue
		}
		byReal[real] = len(out)
		out = append(out, rf.finding)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].SizeBytes > out[j].SizeBytes
	})
	return out
}

// Warnings returns a copy of the warnings accumulated by the last scan.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}
