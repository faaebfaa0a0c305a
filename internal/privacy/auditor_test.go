package privacy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lakshaymaurya-felt/macmole/internal/logging"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAuditFindsChromiumProfile(t *testing.T) {
	home := t.TempDir()
	profile := filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default")
	write(t, filepath.Join(profile, "Cookies"), "cookie db")
	write(t, filepath.Join(profile, "History"), "history db")
	write(t, filepath.Join(profile, "Local Storage", "leveldb", "000.log"), "storage")

	report := NewAuditor(home, logging.Discard()).Audit(context.Background())

	if len(report.Browsers) != 1 {
		t.Fatalf("browsers = %d, want 1", len(report.Browsers))
	}
	b := report.Browsers[0]
	if b.Browser != "Google Chrome" {
		t.Errorf("Browser = %q", b.Browser)
	}
	if len(b.Stores) != 3 {
		t.Errorf("stores = %+v, want cookies+history+local_storage", b.Stores)
	}
	if b.TotalBytes == 0 || report.TotalBytes == 0 {
		t.Error("sizes not measured")
	}
}

func TestAuditFindsNumberedProfiles(t *testing.T) {
	home := t.TempDir()
	base := filepath.Join(home, "Library", "Application Support", "Google", "Chrome")
	write(t, filepath.Join(base, "Default", "Cookies"), "c")
	write(t, filepath.Join(base, "Profile 1", "Cookies"), "c")

	report := NewAuditor(home, logging.Discard()).Audit(context.Background())
	if len(report.Browsers) != 2 {
		t.Errorf("browsers = %d, want Default and Profile 1", len(report.Browsers))
	}
}

func TestAuditFindsFirefoxProfile(t *testing.T) {
	home := t.TempDir()
	profile := filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles", "abc123.default")
	write(t, filepath.Join(profile, "cookies.sqlite"), "cookie db")
	write(t, filepath.Join(profile, "places.sqlite"), "history db")

	report := NewAuditor(home, logging.Discard()).Audit(context.Background())
	if len(report.Browsers) != 1 || report.Browsers[0].Browser != "Firefox" {
		t.Fatalf("browsers = %+v", report.Browsers)
	}
}

func TestAuditFindsCookieStores(t *testing.T) {
	home := t.TempDir()
	write(t, filepath.Join(home, "Library", "Cookies", "com.example.app.binarycookies"), "cookies")
	write(t, filepath.Join(home, "Library", "HTTPStorages", "com.example.app", "httpstorages.sqlite"), "data")

	report := NewAuditor(home, logging.Discard()).Audit(context.Background())
	if len(report.CookieLocations) != 2 {
		t.Fatalf("cookie locations = %+v, want 2", report.CookieLocations)
	}
	if report.TotalLocations != 2 {
		t.Errorf("TotalLocations = %d", report.TotalLocations)
	}
}

func TestAuditEmptyHome(t *testing.T) {
	report := NewAuditor(t.TempDir(), logging.Discard()).Audit(context.Background())
	if len(report.Browsers) != 0 || len(report.CookieLocations) != 0 || report.TotalBytes != 0 {
		t.Errorf("empty home produced findings: %+v", report)
	}
}

func TestAuditRespectsCancellation(t *testing.T) {
	home := t.TempDir()
	write(t, filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "Cookies"), "c")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled audit returns a valid (possibly empty) report.
	report := NewAuditor(home, logging.Discard()).Audit(ctx)
	if report == nil {
		t.Fatal("cancelled audit returned nil")
	}
}
