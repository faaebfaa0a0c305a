package bridge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/logging"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	t.Setenv("MACMOLE_DATA_DIR", t.TempDir())
	if err := config.InitDirs(); err != nil {
		t.Fatal(err)
	}
	return New(config.Default(), logging.Discard())
}

// decode unmarshals an operation response and fails the test on protocol
// violations.
func decode(t *testing.T, raw string) (ok bool, result json.RawMessage, errCode string) {
	t.Helper()
	var env struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, raw)
	}
	if env.Error != nil {
		errCode = env.Error.Code
	}
	if !env.OK && errCode == "" {
		t.Fatalf("failed response carries no error code: %s", raw)
	}
	return env.OK, env.Result, errCode
}

func TestVersion(t *testing.T) {
	b := newTestBridge(t)

	ok, result, _ := decode(t, b.Version())
	if !ok {
		t.Fatal("Version() not ok")
	}
	var v map[string]string
	if err := json.Unmarshal(result, &v); err != nil {
		t.Fatal(err)
	}
	if v["version"] != config.Version {
		t.Errorf("version = %q", v["version"])
	}
}

func TestProfilesList(t *testing.T) {
	b := newTestBridge(t)

	ok, result, _ := decode(t, b.ProfilesList())
	if !ok {
		t.Fatal("ProfilesList() not ok")
	}
	var profiles []struct {
		Name      string `json:"name"`
		RuleCount int    `json:"rule_count"`
	}
	if err := json.Unmarshal(result, &profiles); err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 4 {
		t.Errorf("profiles = %d, want 4", len(profiles))
	}
}

func TestScanUnknownProfile(t *testing.T) {
	b := newTestBridge(t)

	ok, _, code := decode(t, b.Scan(context.Background(), "turbo"))
	if ok || code != "unknown_profile" {
		t.Errorf("ok=%v code=%q, want error unknown_profile", ok, code)
	}
}

func TestCleanUnknownMode(t *testing.T) {
	b := newTestBridge(t)

	ok, _, code := decode(t, b.Clean(context.Background(), "quick", "gentle", ""))
	if ok || code != "unknown_mode" {
		t.Errorf("ok=%v code=%q, want error unknown_mode", ok, code)
	}
}

func TestCleanMalformedSelection(t *testing.T) {
	b := newTestBridge(t)

	ok, _, code := decode(t, b.Clean(context.Background(), "quick", "dry_run", "{not json"))
	if ok {
		t.Error("malformed selection accepted; it must fail rather than clean everything")
	}
	if code == "" {
		t.Error("no error code for malformed selection")
	}
}

func TestUndoRestoreUnknownSession(t *testing.T) {
	b := newTestBridge(t)

	ok, _, code := decode(t, b.UndoRestore("19990101T000000"))
	if ok || code != "session_not_found" {
		t.Errorf("ok=%v code=%q, want error session_not_found", ok, code)
	}
}

func TestAppCleanLeftoversUnknownApp(t *testing.T) {
	b := newTestBridge(t)

	ok, _, code := decode(t, b.AppCleanLeftovers(context.Background(), "No Such App", "dry_run"))
	if ok || code != "app_not_found" {
		t.Errorf("ok=%v code=%q, want error app_not_found", ok, code)
	}
}

func TestUndoListEmpty(t *testing.T) {
	b := newTestBridge(t)

	ok, result, _ := decode(t, b.UndoList())
	if !ok {
		t.Fatal("UndoList() not ok")
	}
	var sessions []any
	if err := json.Unmarshal(result, &sessions); err != nil {
		t.Fatalf("result is not an array: %s", result)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %v", sessions)
	}
}

func TestDiskUsage(t *testing.T) {
	b := newTestBridge(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f.bin"), make([]byte, 4096), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, result, _ := decode(t, b.DiskUsage(context.Background(), dir, 0))
	if !ok {
		t.Fatal("DiskUsage() not ok")
	}
	var out struct {
		Tree struct {
			Path string `json:"path"`
			Size int64  `json:"size"`
		} `json:"tree"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		t.Fatal(err)
	}
	if out.Tree.Path != dir || out.Tree.Size == 0 {
		t.Errorf("tree = %+v", out.Tree)
	}
}

func TestPrivacyScanEnvelope(t *testing.T) {
	b := newTestBridge(t)

	ok, result, _ := decode(t, b.PrivacyScan(context.Background()))
	if !ok {
		t.Fatal("PrivacyScan() not ok")
	}
	var report struct {
		TotalBytes int64 `json:"total_bytes"`
	}
	if err := json.Unmarshal(result, &report); err != nil {
		t.Fatal(err)
	}
}
