package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lakshaymaurya-felt/macmole/internal/logging"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

var (
	// ErrSessionNotFound is returned for unknown session identifiers.
	ErrSessionNotFound = errors.New("session not found")

	// ErrLedgerBusy is returned when another execution or restore holds the
	// ledger. Concurrent mutations are rejected, never queued.
	ErrLedgerBusy = errors.New("another clean or restore is in progress")
)

// UndoRecord is one quarantined (or, for hard mode, audit-only) item.
type UndoRecord struct {
	OriginalPath string `json:"original_path"`
	StagedPath   string `json:"staged_path,omitempty"`
	SizeBytes    int64  `json:"size_bytes"`
	Category     string `json:"category"`
	Risk         string `json:"risk"`
	IsDir        bool   `json:"is_dir"`

	// Irreversible marks hard-mode records. They are never restorable and
	// exist only for the audit trail.
	Irreversible bool `json:"irreversible,omitempty"`

	// Restored is set per record so a partially restored session keeps its
	// unresolved records actionable.
	Restored bool `json:"restored,omitempty"`

	// Error notes a failed action; such records hold nothing in quarantine.
	Error string `json:"error,omitempty"`
}

// Session is one persisted soft-mode execution batch.
type Session struct {
	ID         string       `json:"session_id"`
	CreatedAt  time.Time    `json:"created_at"`
	Profile    string       `json:"profile"`
	Mode       string       `json:"mode"`
	TotalBytes int64        `json:"total_bytes"`
	TotalFiles int          `json:"total_files"`
	ExpiresAt  time.Time    `json:"expires_at"`
	Retired    bool         `json:"retired"`
	Records    []UndoRecord `json:"records"`
}

// addRecord appends a record, counting only successful ones in the totals.
func (s *Session) addRecord(rec UndoRecord) {
	if rec.Error == "" {
		s.TotalBytes += rec.SizeBytes
		s.TotalFiles++
	}
	s.Records = append(s.Records, rec)
}

// restorable reports whether any record still holds quarantined content.
func (s *Session) restorable() bool {
	for _, rec := range s.Records {
		if rec.Error == "" && !rec.Irreversible && !rec.Restored {
			return true
		}
	}
	return false
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	ID         string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	Profile    string    `json:"profile"`
	Mode       string    `json:"mode"`
	TotalBytes int64     `json:"total_bytes"`
	TotalFiles int       `json:"total_files"`
	ExpiresAt  time.Time `json:"expires_at"`
	Expired    bool      `json:"expired"`
}

// Ledger owns the quarantine area and the persisted session manifests. It
// is an injected dependency so tests can point it at a temp directory. All
// mutations go through a single-writer lock; contention is rejected with
// ErrLedgerBusy rather than queued.
type Ledger struct {
	dir       string
	retention time.Duration
	logger    *logging.Logger

	mu sync.Mutex
}

// OpenLedger binds a ledger to a staging directory.
func OpenLedger(dir string, retention time.Duration, logger *logging.Logger) *Ledger {
	return &Ledger{dir: dir, retention: retention, logger: logger}
}

// Dir returns the staging directory root.
func (l *Ledger) Dir() string { return l.dir }

func (l *Ledger) tryAcquire() error {
	if !l.mu.TryLock() {
		return ErrLedgerBusy
	}
	return nil
}

func (l *Ledger) release() { l.mu.Unlock() }

func (l *Ledger) sessionDir(id string) string { return filepath.Join(l.dir, id) }

func (l *Ledger) filesDir(id string) string {
	return filepath.Join(l.sessionDir(id), "files")
}

func (l *Ledger) manifestPath(id string) string {
	return filepath.Join(l.sessionDir(id), "manifest.json")
}

// newSession allocates a unique, timestamp-ordered session identifier.
func (l *Ledger) newSession(profile, mode string) *Session {
	now := time.Now().UTC()
	id := now.Format("20060102T150405")
	for i := 1; ; i++ {
		if _, err := os.Stat(l.sessionDir(id)); os.IsNotExist(err) {
			break
		}
		id = fmt.Sprintf("%s-%d", now.Format("20060102T150405"), i)
	}
	return &Session{
		ID:        id,
		CreatedAt: now,
		Profile:   profile,
		Mode:      mode,
		ExpiresAt: now.Add(l.retention),
	}
}

// saveManifest persists a session. Failure here is escalated by the
// executor for soft mode: a destructive operation that cannot be recorded
// must not be reported as success.
func (l *Ledger) saveManifest(s *Session) error {
	if err := os.MkdirAll(l.sessionDir(s.ID), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(l.manifestPath(s.ID), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func (l *Ledger) loadSession(id string) (*Session, error) {
	data, err := os.ReadFile(l.manifestPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", id, err)
	}
	return &s, nil
}

// List returns pending (non-retired) sessions, newest first.
func (l *Ledger) List() ([]SessionSummary, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read staging dir: %w", err)
	}

	var out []SessionSummary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s, err := l.loadSession(entry.Name())
		if err != nil {
			continue // stray directory, not a session
		}
		if s.Retired {
			continue
		}
		out = append(out, SessionSummary{
			ID:         s.ID,
			CreatedAt:  s.CreatedAt,
			Profile:    s.Profile,
			Mode:       s.Mode,
			TotalBytes: s.TotalBytes,
			TotalFiles: s.TotalFiles,
			ExpiresAt:  s.ExpiresAt,
			Expired:    time.Now().After(s.ExpiresAt),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RestoreStatus classifies the outcome for one record during restore.
type RestoreStatus string

const (
	RestoreSucceeded    RestoreStatus = "succeeded"
	RestoreConflict     RestoreStatus = "conflict"
	RestoreMissing      RestoreStatus = "missing"
	RestoreIrreversible RestoreStatus = "irreversible"
)

// RestoreAction reports one record's restore outcome.
type RestoreAction struct {
	Path   string        `json:"path"`
	Status RestoreStatus `json:"status"`
	Detail string        `json:"detail,omitempty"`
}

// RestoreResult summarizes a restore operation.
type RestoreResult struct {
	SessionID     string          `json:"session_id"`
	RestoredFiles int             `json:"restored_files"`
	RestoredBytes int64           `json:"restored_bytes"`
	Actions       []RestoreAction `json:"actions"`
}

// Restore moves a session's quarantined content back to its original
// locations. Conflicts (original path now occupied) and missing quarantine
// content are reported per record, never thrown; the quarantined copy of a
// conflicted record stays put. A fully restored session is retired but its
// manifest remains for audit.
func (l *Ledger) Restore(sessionID string) (*RestoreResult, error) {
	if err := l.tryAcquire(); err != nil {
		return nil, err
	}
	defer l.release()

	s, err := l.loadSession(sessionID)
	if err != nil {
		return nil, err
	}

	res := &RestoreResult{SessionID: sessionID}
	remaining := false

	for i := range s.Records {
		rec := &s.Records[i]
		switch {
		case rec.Error != "" || rec.Restored:
			// Nothing in quarantine for this record.
			continue
		case rec.Irreversible:
			res.Actions = append(res.Actions, RestoreAction{
				Path:   rec.OriginalPath,
				Status: RestoreIrreversible,
				Detail: "removed permanently; not recoverable",
			})
			continue
		}

		if _, err := os.Lstat(rec.StagedPath); err != nil {
			res.Actions = append(res.Actions, RestoreAction{
				Path:   rec.OriginalPath,
				Status: RestoreMissing,
				Detail: "quarantined content no longer present",
			})
			continue
		}

		if _, err := os.Lstat(rec.OriginalPath); err == nil {
			// Something new occupies the original path. Leave both sides
			// untouched so the user can resolve it.
			remaining = true
			res.Actions = append(res.Actions, RestoreAction{
				Path:   rec.OriginalPath,
				Status: RestoreConflict,
				Detail: "original path is now occupied",
			})
			continue
		}

		if err := movePath(rec.StagedPath, rec.OriginalPath); err != nil {
			remaining = true
			res.Actions = append(res.Actions, RestoreAction{
				Path:   rec.OriginalPath,
				Status: RestoreConflict,
				Detail: err.Error(),
			})
			continue
		}

		rec.Restored = true
		res.RestoredFiles++
		res.RestoredBytes += rec.SizeBytes
		res.Actions = append(res.Actions, RestoreAction{
			Path:   rec.OriginalPath,
			Status: RestoreSucceeded,
		})
	}

	if !remaining && !s.restorable() {
		s.Retired = true
	}
	if err := l.saveManifest(s); err != nil {
		return nil, err
	}

	cleanupEmptyDirs(l.filesDir(sessionID))
	l.logger.Audit("restore", res)
	return res, nil
}

// PurgeExpired deletes quarantined content for retired or expired sessions,
// returning the number of sessions purged and bytes released.
func (l *Ledger) PurgeExpired() (int, int64, error) {
	if err := l.tryAcquire(); err != nil {
		return 0, 0, err
	}
	defer l.release()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	now := time.Now()
	purged := 0
	var freed int64
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s, err := l.loadSession(entry.Name())
		if err != nil {
			continue
		}
		if !s.Retired && now.Before(s.ExpiresAt) {
			continue
		}
		size, _, _ := scan.DirStats(l.filesDir(s.ID), 0, nil)
		if err := os.RemoveAll(l.sessionDir(s.ID)); err != nil {
			l.logger.Warnf("purge session %s: %v", s.ID, err)
			continue
		}
		purged++
		freed += size
	}
	l.logger.Infof("purged %d sessions, freed %d bytes", purged, freed)
	return purged, freed, nil
}

// Health summarizes quarantine pressure for the caller.
type Health struct {
	TotalBytes   int64  `json:"total_bytes"`
	SessionCount int    `json:"session_count"`
	ExpiredCount int    `json:"expired_count"`
	Warning      string `json:"warning,omitempty"`
}

// CheckHealth reports aggregate quarantine usage and flags bloat.
func (l *Ledger) CheckHealth() (*Health, error) {
	sessions, err := l.List()
	if err != nil {
		return nil, err
	}

	h := &Health{SessionCount: len(sessions)}
	for _, s := range sessions {
		size, _, _ := scan.DirStats(l.filesDir(s.ID), 0, nil)
		h.TotalBytes += size
		if s.Expired {
			h.ExpiredCount++
		}
	}

	switch {
	case h.TotalBytes > 5*1024*1024*1024:
		h.Warning = "quarantine holds over 5 GB; run 'macmole undo purge' to release it"
	case h.ExpiredCount > 10:
		h.Warning = fmt.Sprintf("%d expired sessions pending; run 'macmole undo purge'", h.ExpiredCount)
	}
	return h, nil
}
