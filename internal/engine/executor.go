package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/plan"
)

// Action reports the outcome for one finding in an execution.
type Action struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Bytes   int64  `json:"bytes"`
	Outcome string `json:"outcome"` // succeeded, skipped, failed
	Reason  string `json:"reason,omitempty"`
}

// ExecResult summarizes one execution of a plan.
type ExecResult struct {
	Mode       string   `json:"mode"`
	Profile    string   `json:"profile"`
	SessionID  string   `json:"session_id,omitempty"`
	FreedBytes int64    `json:"freed_bytes"`
	FreedFiles int      `json:"freed_files"`
	Actions    []Action `json:"actions"`
	Errors     []string `json:"errors,omitempty"`
}

// Executor applies plans. Item-level failures are recorded and execution
// continues; only conditions that invalidate the whole request (protected
// paths in the plan, batch limits, ledger contention, an unwritable
// quarantine) abort before anything is touched.
type Executor struct {
	ledger *Ledger
	logger *logging.Logger
}

// NewExecutor wires an executor to its ledger.
func NewExecutor(ledger *Ledger, logger *logging.Logger) *Executor {
	return &Executor{ledger: ledger, logger: logger}
}

// Execute applies a plan under the given mode. Dry-run plans touch nothing.
// Soft plans quarantine each target and persist a restorable session when at
// least one move succeeded. Hard plans remove targets permanently and leave
// only audit-log records.
func (e *Executor) Execute(ctx context.Context, p plan.Plan, profile string) (*ExecResult, error) {
	for _, f := range p.Findings {
		if IsProtected(f.Path) {
			return nil, fmt.Errorf("refusing to touch protected path %q", f.Path)
		}
	}
	if err := validateBatch(p.TotalFiles(), p.TotalBytes()); err != nil {
		return nil, err
	}

	res := &ExecResult{Mode: p.Mode.String(), Profile: profile}

	switch p.Mode {
	case plan.ModeDryRun:
		for _, f := range p.Findings {
			res.Actions = append(res.Actions, Action{
				Path:    f.Path,
				Name:    f.Name,
				Bytes:   f.SizeBytes,
				Outcome: "succeeded",
				Reason:  "dry run, nothing removed",
			})
			res.FreedBytes += f.SizeBytes
			res.FreedFiles += f.FileCount
		}
		e.logger.Audit("clean", res)
		return res, nil

	case plan.ModeSoft:
		return e.executeSoft(ctx, p, profile, res)

	case plan.ModeHard:
		return e.executeHard(ctx, p, profile, res)
	}
	return nil, fmt.Errorf("unsupported mode %v", p.Mode)
}

// executeSoft quarantines each target under the session directory. The
// session manifest is probed for writability before the first move: if the
// ledger cannot record the operation, the operation must not happen.
func (e *Executor) executeSoft(ctx context.Context, p plan.Plan, profile string, res *ExecResult) (*ExecResult, error) {
	if err := e.ledger.tryAcquire(); err != nil {
		return nil, err
	}
	defer e.ledger.release()

	session := e.ledger.newSession(profile, p.Mode.String())
	if err := e.ledger.saveManifest(session); err != nil {
		return nil, fmt.Errorf("quarantine not writable: %w", err)
	}

	filesDir := e.ledger.filesDir(session.ID)
	succeeded := 0

	for i, f := range p.Findings {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, "cancelled: remaining items untouched")
			break
		}

		staged := filepath.Join(filesDir, fmt.Sprintf("%06d", i))
		rec := UndoRecord{
			OriginalPath: f.Path,
			StagedPath:   staged,
			SizeBytes:    f.SizeBytes,
			Category:     f.Category.String(),
			Risk:         f.Risk.String(),
			IsDir:        isDir(f.Path),
		}

		if err := movePath(f.Path, staged); err != nil {
			rec.Error = err.Error()
			session.addRecord(rec)
			res.Actions = append(res.Actions, Action{
				Path: f.Path, Name: f.Name, Bytes: f.SizeBytes,
				Outcome: "failed", Reason: err.Error(),
			})
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", f.Path, err))
			e.logger.Warnf("quarantine %s: %v", f.Path, err)
			continue
		}

		session.addRecord(rec)
		succeeded++
		res.Actions = append(res.Actions, Action{
			Path: f.Path, Name: f.Name, Bytes: f.SizeBytes, Outcome: "succeeded",
		})
		res.FreedBytes += f.SizeBytes
		res.FreedFiles += f.FileCount
	}

	if succeeded == 0 {
		// Nothing was moved: no restorable state exists, so no session.
		_ = os.RemoveAll(e.ledger.sessionDir(session.ID))
		return res, nil
	}

	if err := e.ledger.saveManifest(session); err != nil {
		// Files are in quarantine but the record of them could not be
		// written. That loses the undo path, so the whole request fails
		// loudly instead of claiming success.
		return nil, fmt.Errorf("moved %d items but could not record session: %w", succeeded, err)
	}

	res.SessionID = session.ID
	e.logger.Audit("clean", res)
	return res, nil
}

// executeHard removes targets permanently. No session is created; the only
// trace is the irreversible audit record.
func (e *Executor) executeHard(ctx context.Context, p plan.Plan, profile string, res *ExecResult) (*ExecResult, error) {
	if err := e.ledger.tryAcquire(); err != nil {
		return nil, err
	}
	defer e.ledger.release()

	for _, f := range p.Findings {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, "cancelled: remaining items untouched")
			break
		}

		if err := removePath(f.Path); err != nil {
			res.Actions = append(res.Actions, Action{
				Path: f.Path, Name: f.Name, Bytes: f.SizeBytes,
				Outcome: "failed", Reason: err.Error(),
			})
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", f.Path, err))
			e.logger.Warnf("remove %s: %v", f.Path, err)
			continue
		}

		res.Actions = append(res.Actions, Action{
			Path: f.Path, Name: f.Name, Bytes: f.SizeBytes, Outcome: "succeeded",
		})
		res.FreedBytes += f.SizeBytes
		res.FreedFiles += f.FileCount
		e.logger.Audit("hard-delete", UndoRecord{
			OriginalPath: f.Path,
			SizeBytes:    f.SizeBytes,
			Category:     f.Category.String(),
			Risk:         f.Risk.String(),
			Irreversible: true,
		})
	}

	e.logger.Audit("clean", res)
	return res, nil
}

func isDir(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}
