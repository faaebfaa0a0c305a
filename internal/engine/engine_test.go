package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/plan"
	"github.com/lakshaymaurya-felt/macmole/internal/rules"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return OpenLedger(t.TempDir(), 7*24*time.Hour, logging.Discard())
}

// writeTarget creates a directory with a couple of files and returns a
// finding describing it.
func writeTarget(t *testing.T, root, name string) scan.Finding {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("payload "+f), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return scan.Finding{
		Path:      dir,
		RuleID:    "test-" + name,
		Name:      name,
		Category:  rules.CategoryCache,
		SizeBytes: 1024,
		FileCount: 2,
		Risk:      rules.RiskSafe,
	}
}

func TestExecuteDryRunTouchesNothing(t *testing.T) {
	work := t.TempDir()
	f := writeTarget(t, work, "caches")

	exec := NewExecutor(newTestLedger(t), logging.Discard())
	res, err := exec.Execute(context.Background(), plan.Plan{Mode: plan.ModeDryRun, Findings: []scan.Finding{f}}, "quick")
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	if _, err := os.Stat(f.Path); err != nil {
		t.Errorf("dry run removed the target: %v", err)
	}
	if res.SessionID != "" {
		t.Errorf("dry run created session %q", res.SessionID)
	}
	if res.FreedBytes != f.SizeBytes {
		t.Errorf("FreedBytes = %d, want %d", res.FreedBytes, f.SizeBytes)
	}
}

func TestExecuteSoftRoundTrip(t *testing.T) {
	work := t.TempDir()
	f := writeTarget(t, work, "caches")

	ledger := newTestLedger(t)
	exec := NewExecutor(ledger, logging.Discard())

	res, err := exec.Execute(context.Background(), plan.Plan{Mode: plan.ModeSoft, Findings: []scan.Finding{f}}, "quick")
	if err != nil {
		t.Fatalf("soft execute failed: %v", err)
	}
	if res.SessionID == "" {
		t.Fatal("soft execute with a success produced no session")
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Error("target still present after soft clean")
	}

	sessions, err := ledger.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != res.SessionID {
		t.Fatalf("List() = %+v, want the one session", sessions)
	}

	restore, err := ledger.Restore(res.SessionID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restore.RestoredFiles != 1 {
		t.Errorf("RestoredFiles = %d, want 1", restore.RestoredFiles)
	}
	if len(restore.Actions) != 1 || restore.Actions[0].Status != RestoreSucceeded {
		t.Fatalf("Actions = %+v, want one succeeded", restore.Actions)
	}

	data, err := os.ReadFile(filepath.Join(f.Path, "a.txt"))
	if err != nil {
		t.Fatalf("restored file unreadable: %v", err)
	}
	if string(data) != "payload a.txt" {
		t.Errorf("restored content = %q", data)
	}

	// Fully restored sessions are retired and drop out of the listing.
	sessions, err = ledger.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("retired session still listed: %+v", sessions)
	}
}

func TestRestoreConflictLeavesBothSides(t *testing.T) {
	work := t.TempDir()
	f := writeTarget(t, work, "caches")

	ledger := newTestLedger(t)
	exec := NewExecutor(ledger, logging.Discard())

	res, err := exec.Execute(context.Background(), plan.Plan{Mode: plan.ModeSoft, Findings: []scan.Finding{f}}, "quick")
	if err != nil {
		t.Fatal(err)
	}

	// Something new appears at the original path before the restore.
	if err := os.MkdirAll(f.Path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(f.Path, "new.txt"), []byte("newer"), 0o644); err != nil {
		t.Fatal(err)
	}

	restore, err := ledger.Restore(res.SessionID)
	if err != nil {
		t.Fatalf("restore errored instead of reporting conflict: %v", err)
	}
	if len(restore.Actions) != 1 || restore.Actions[0].Status != RestoreConflict {
		t.Fatalf("Actions = %+v, want one conflict", restore.Actions)
	}

	// The occupant is untouched and the quarantined copy survives.
	if _, err := os.Stat(filepath.Join(f.Path, "new.txt")); err != nil {
		t.Errorf("conflicting occupant was disturbed: %v", err)
	}
	sessions, err := ledger.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Errorf("conflicted session should stay listed, got %+v", sessions)
	}
}

func TestExecuteHardIsIrreversible(t *testing.T) {
	work := t.TempDir()
	f := writeTarget(t, work, "caches")

	ledger := newTestLedger(t)
	exec := NewExecutor(ledger, logging.Discard())

	res, err := exec.Execute(context.Background(), plan.Plan{Mode: plan.ModeHard, Findings: []scan.Finding{f}}, "deep")
	if err != nil {
		t.Fatalf("hard execute failed: %v", err)
	}
	if res.SessionID != "" {
		t.Errorf("hard mode produced restorable session %q", res.SessionID)
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Error("target still present after hard clean")
	}
	sessions, err := ledger.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("hard mode left sessions: %+v", sessions)
	}
}

func TestExecuteSoftPartialFailure(t *testing.T) {
	work := t.TempDir()
	good := writeTarget(t, work, "caches")
	missing := scan.Finding{
		Path:     filepath.Join(work, "does-not-exist"),
		Name:     "ghost",
		Category: rules.CategoryCache,
	}

	ledger := newTestLedger(t)
	exec := NewExecutor(ledger, logging.Discard())

	res, err := exec.Execute(context.Background(),
		plan.Plan{Mode: plan.ModeSoft, Findings: []scan.Finding{missing, good}}, "quick")
	if err != nil {
		t.Fatalf("one bad item aborted the batch: %v", err)
	}

	if res.SessionID == "" {
		t.Fatal("batch with one success produced no session")
	}
	if len(res.Errors) == 0 {
		t.Error("failed item not reported")
	}

	var outcomes []string
	for _, a := range res.Actions {
		outcomes = append(outcomes, a.Outcome)
	}
	if len(outcomes) != 2 || outcomes[0] != "failed" || outcomes[1] != "succeeded" {
		t.Errorf("outcomes = %v", outcomes)
	}
}

func TestExecuteSoftAllFailedNoSession(t *testing.T) {
	ledger := newTestLedger(t)
	exec := NewExecutor(ledger, logging.Discard())

	missing := scan.Finding{
		Path:     filepath.Join(t.TempDir(), "nope"),
		Name:     "ghost",
		Category: rules.CategoryCache,
	}
	res, err := exec.Execute(context.Background(),
		plan.Plan{Mode: plan.ModeSoft, Findings: []scan.Finding{missing}}, "quick")
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionID != "" {
		t.Errorf("all-failed batch created session %q", res.SessionID)
	}
	sessions, err := ledger.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions after all-failed batch: %+v", sessions)
	}
}

func TestExecuteRefusesProtectedPaths(t *testing.T) {
	exec := NewExecutor(newTestLedger(t), logging.Discard())
	p := plan.Plan{
		Mode:     plan.ModeHard,
		Findings: []scan.Finding{{Path: "/System", Name: "system"}},
	}
	if _, err := exec.Execute(context.Background(), p, "deep"); err == nil {
		t.Fatal("protected path accepted")
	}
}

func TestExecuteRejectsOversizedBatch(t *testing.T) {
	exec := NewExecutor(newTestLedger(t), logging.Discard())
	p := plan.Plan{
		Mode: plan.ModeDryRun,
		Findings: []scan.Finding{{
			Path:      filepath.Join(t.TempDir(), "big"),
			Name:      "big",
			SizeBytes: maxBytesPerOperation + 1,
			FileCount: 1,
		}},
	}
	if _, err := exec.Execute(context.Background(), p, "deep"); err == nil {
		t.Fatal("oversized batch accepted")
	}
}

func TestRestoreUnknownSession(t *testing.T) {
	ledger := newTestLedger(t)
	if _, err := ledger.Restore("19990101T000000"); err == nil {
		t.Fatal("restore of unknown session succeeded")
	}
}

func TestPurgeExpired(t *testing.T) {
	work := t.TempDir()
	f := writeTarget(t, work, "caches")

	// Zero retention: the session expires immediately.
	ledger := OpenLedger(t.TempDir(), 0, logging.Discard())
	exec := NewExecutor(ledger, logging.Discard())

	res, err := exec.Execute(context.Background(), plan.Plan{Mode: plan.ModeSoft, Findings: []scan.Finding{f}}, "quick")
	if err != nil {
		t.Fatal(err)
	}

	purged, _, err := ledger.PurgeExpired()
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Fatalf("purged = %d, want 1", purged)
	}
	if _, err := os.Stat(ledger.sessionDir(res.SessionID)); !os.IsNotExist(err) {
		t.Error("purged session directory still exists")
	}
}

func TestIsProtected(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	for _, path := range []string{"/", "/System", "/Users", home, filepath.Join(home, "Documents")} {
		if !IsProtected(path) {
			t.Errorf("IsProtected(%q) = false", path)
		}
	}
	for _, path := range []string{filepath.Join(home, "Library", "Caches"), "/tmp/whatever"} {
		if IsProtected(path) {
			t.Errorf("IsProtected(%q) = true", path)
		}
	}
}

func TestMovePathAcrossDirectories(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "deep", "dst")
	if err := movePath(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "nested", "f")); err != nil {
		t.Errorf("moved tree incomplete: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still present after move")
	}
}
