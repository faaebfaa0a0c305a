// Package bridge is the embedding surface of the engine: every operation
// takes primitive string inputs and returns a JSON document, so callers in
// other languages (or scripts) never link against internal types. Enum
// strings (profile, mode, category) are parsed here exactly once; past this
// boundary only closed types circulate.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/apps"
	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/diskusage"
	"github.com/lakshaymaurya-felt/macmole/internal/engine"
	"github.com/lakshaymaurya-felt/macmole/internal/format"
	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/plan"
	"github.com/lakshaymaurya-felt/macmole/internal/privacy"
	"github.com/lakshaymaurya-felt/macmole/internal/rules"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// envelope is the uniform response shape for every operation.
type envelope struct {
	OK       bool     `json:"ok"`
	Result   any      `json:"result,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    *opError `json:"error,omitempty"`
}

type opError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCode maps sentinel errors to stable machine-readable codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, rules.ErrUnknownProfile):
		return "unknown_profile"
	case errors.Is(err, plan.ErrUnknownMode):
		return "unknown_mode"
	case errors.Is(err, engine.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, apps.ErrAppNotFound):
		return "app_not_found"
	case errors.Is(err, engine.ErrLedgerBusy):
		return "ledger_busy"
	default:
		return "internal"
	}
}

func respond(result any, warnings []string) string {
	return encode(envelope{OK: true, Result: result, Warnings: warnings})
}

func respondErr(err error) string {
	return encode(envelope{OK: false, Error: &opError{Code: errorCode(err), Message: err.Error()}})
}

func encode(env envelope) string {
	data, err := json.Marshal(env)
	if err != nil {
		// Result contained something unmarshalable; still answer in-protocol.
		fallback, _ := json.Marshal(envelope{
			OK:    false,
			Error: &opError{Code: "internal", Message: err.Error()},
		})
		return string(fallback)
	}
	return string(data)
}

// Bridge wires the core components behind the string API. One Bridge is
// safe for concurrent use; mutating operations serialize on the ledger.
type Bridge struct {
	cfg      *config.Config
	logger   *logging.Logger
	scanner  *scan.Scanner
	registry *apps.Registry
	auditor  *privacy.Auditor
	ledger   *engine.Ledger
	executor *engine.Executor
}

// New assembles a bridge over the given config. Pass a Discard logger in
// tests to keep the audit log out of the filesystem.
func New(cfg *config.Config, logger *logging.Logger) *Bridge {
	ledger := engine.OpenLedger(
		config.StagingDir(),
		time.Duration(cfg.RetentionDays)*24*time.Hour,
		logger,
	)
	return &Bridge{
		cfg:      cfg,
		logger:   logger,
		scanner:  scan.New(cfg.MaxWorkers, cfg.IsExcluded),
		registry: apps.NewRegistry(logger),
		auditor:  privacy.NewAuditor("", logger),
		ledger:   ledger,
		executor: engine.NewExecutor(ledger, logger),
	}
}

// Typed accessors for in-process callers (the CLI renders core results
// directly instead of re-parsing its own JSON).
func (b *Bridge) Scanner() *scan.Scanner     { return b.scanner }
func (b *Bridge) Registry() *apps.Registry   { return b.registry }
func (b *Bridge) Auditor() *privacy.Auditor  { return b.auditor }
func (b *Bridge) Ledger() *engine.Ledger     { return b.ledger }
func (b *Bridge) Executor() *engine.Executor { return b.executor }

// ─── Scan ────────────────────────────────────────────────────────────────────

type scanItem struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	Category      string   `json:"category"`
	Categories    []string `json:"categories"`
	SizeBytes     int64    `json:"size_bytes"`
	SizeFormatted string   `json:"size_formatted"`
	FileCount     int      `json:"file_count"`
	Risk          string   `json:"risk"`
	Reason        string   `json:"reason"`
}

type scanResult struct {
	Profile        string     `json:"profile"`
	DurationSecs   float64    `json:"duration_secs"`
	TotalBytes     int64      `json:"total_bytes"`
	TotalFormatted string     `json:"total_formatted"`
	TotalFiles     int        `json:"total_files"`
	Items          []scanItem `json:"items"`
}

func toScanItems(findings []scan.Finding) []scanItem {
	items := make([]scanItem, 0, len(findings))
	for _, f := range findings {
		cats := make([]string, 0, len(f.Categories))
		for _, c := range f.Categories {
			cats = append(cats, c.String())
		}
		items = append(items, scanItem{
			Name:          f.Name,
			Path:          f.Path,
			Category:      f.Category.String(),
			Categories:    cats,
			SizeBytes:     f.SizeBytes,
			SizeFormatted: format.Size(f.SizeBytes),
			FileCount:     f.FileCount,
			Risk:          f.Risk.String(),
			Reason:        f.Reason,
		})
	}
	return items
}

// Scan runs the given profile and returns its findings. An empty profile
// name defaults to quick.
func (b *Bridge) Scan(ctx context.Context, profile string) string {
	if profile == "" {
		profile = "quick"
	}
	ruleSet, err := rules.Resolve(profile)
	if err != nil {
		return respondErr(err)
	}

	res := b.scanner.Scan(ctx, ruleSet)
	return respond(scanResult{
		Profile:        profile,
		DurationSecs:   res.Duration.Seconds(),
		TotalBytes:     res.TotalBytes,
		TotalFormatted: format.Size(res.TotalBytes),
		TotalFiles:     res.TotalFiles,
		Items:          toScanItems(res.Findings),
	}, res.Warnings)
}

// ─── Clean ───────────────────────────────────────────────────────────────────

// Clean scans a profile and executes the selected findings in the given
// mode. selectionJSON is a JSON array of finding display names; empty means
// clean everything. Malformed selection JSON fails the whole request:
// guessing at what the caller meant and then deleting is not acceptable.
func (b *Bridge) Clean(ctx context.Context, profile, mode, selectionJSON string) string {
	if profile == "" {
		profile = "quick"
	}
	m, err := plan.ParseMode(mode)
	if err != nil {
		return respondErr(err)
	}
	ruleSet, err := rules.Resolve(profile)
	if err != nil {
		return respondErr(err)
	}

	var selection []string
	if selectionJSON != "" {
		if err := json.Unmarshal([]byte(selectionJSON), &selection); err != nil {
			return respondErr(errors.New("selection is not a JSON string array: " + err.Error()))
		}
	}

	scanRes := b.scanner.Scan(ctx, ruleSet)
	p := plan.New(m, scanRes.Findings, selection)

	execRes, err := b.executor.Execute(ctx, p, profile)
	if err != nil {
		return respondErr(err)
	}
	return respond(execRes, scanRes.Warnings)
}

// ─── Apps ────────────────────────────────────────────────────────────────────

type appItem struct {
	apps.App
	SizeFormatted string `json:"size_formatted"`
}

// AppsList enumerates installed applications, largest first.
func (b *Bridge) AppsList(ctx context.Context) string {
	list, err := b.registry.List(ctx)
	if err != nil && len(list) == 0 {
		return respondErr(err)
	}

	items := make([]appItem, 0, len(list))
	for _, app := range list {
		items = append(items, appItem{App: app, SizeFormatted: format.Size(app.SizeBytes)})
	}
	return respond(items, nil)
}

// AppCleanLeftovers removes the library data an app has left behind, never
// the bundle itself. The findings run through the same plan and execution
// path as profile cleans, so soft mode yields a restorable session.
func (b *Bridge) AppCleanLeftovers(ctx context.Context, appName, mode string) string {
	m, err := plan.ParseMode(mode)
	if err != nil {
		return respondErr(err)
	}
	app, err := b.registry.Find(ctx, appName)
	if err != nil {
		return respondErr(err)
	}

	findings := apps.Leftovers(ctx, app)
	p := plan.New(m, findings, nil)

	execRes, err := b.executor.Execute(ctx, p, "app:"+app.Name)
	if err != nil {
		return respondErr(err)
	}
	return respond(execRes, nil)
}

// ─── Privacy ─────────────────────────────────────────────────────────────────

// PrivacyScan audits browser profiles and cookie stores. Read-only.
func (b *Bridge) PrivacyScan(ctx context.Context) string {
	return respond(b.auditor.Audit(ctx), nil)
}

// ─── Disk usage ──────────────────────────────────────────────────────────────

type diskUsageResult struct {
	Volume *diskusage.VolumeStats `json:"volume,omitempty"`
	Tree   *diskusage.Node        `json:"tree"`
}

// DiskUsage measures the tree under path (default: the home directory) to
// the given depth and pairs it with volume capacity figures.
func (b *Bridge) DiskUsage(ctx context.Context, path string, maxDepth int) string {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return respondErr(err)
		}
		path = home
	}

	analyzer := diskusage.NewAnalyzer(b.cfg.MaxWorkers, maxDepth, 0)
	tree, err := analyzer.Scan(ctx, path)
	if err != nil {
		return respondErr(err)
	}

	out := diskUsageResult{Tree: tree}
	if vol, err := diskusage.Volume(path); err == nil {
		out.Volume = vol
	}
	return respond(out, analyzer.Warnings())
}

// ─── Undo ────────────────────────────────────────────────────────────────────

// UndoList returns pending sessions, newest first.
func (b *Bridge) UndoList() string {
	sessions, err := b.ledger.List()
	if err != nil {
		return respondErr(err)
	}
	if sessions == nil {
		sessions = []engine.SessionSummary{}
	}
	return respond(sessions, nil)
}

// UndoRestore moves a session's quarantined content back to its original
// locations.
func (b *Bridge) UndoRestore(sessionID string) string {
	res, err := b.ledger.Restore(sessionID)
	if err != nil {
		return respondErr(err)
	}
	return respond(res, nil)
}

// ─── Profiles / Version ──────────────────────────────────────────────────────

// ProfilesList returns the available scan profiles.
func (b *Bridge) ProfilesList() string {
	return respond(rules.List(), nil)
}

// Version reports the engine version.
func (b *Bridge) Version() string {
	return respond(map[string]string{"version": config.Version}, nil)
}
