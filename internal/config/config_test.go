package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MACMOLE_DATA_DIR", dir)

	if got := DataDir(); got != dir {
		t.Errorf("DataDir() = %q, want %q", got, dir)
	}
	if got := StagingDir(); got != filepath.Join(dir, "staging") {
		t.Errorf("StagingDir() = %q", got)
	}
}

func TestInitDirs(t *testing.T) {
	t.Setenv("MACMOLE_DATA_DIR", filepath.Join(t.TempDir(), "state"))

	if err := InitDirs(); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{DataDir(), StagingDir(), LogsDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("MACMOLE_DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RetentionDays != 7 || cfg.LogMaxSizeMB != 10 {
		t.Errorf("defaults wrong: %+v", cfg)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MACMOLE_DATA_DIR", dir)

	content := `# comment
retention_days = 14
max_workers = 4
exclude_paths = /Volumes/backup, node_modules

malformed line without equals
bad_key = ignored
retention_days = notanumber
`
	if err := os.WriteFile(filepath.Join(dir, "config"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RetentionDays != 14 {
		t.Errorf("RetentionDays = %d, want 14 (malformed later value must not reset it)", cfg.RetentionDays)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if len(cfg.ExcludePaths) != 2 {
		t.Errorf("ExcludePaths = %v", cfg.ExcludePaths)
	}

	if !cfg.IsExcluded("/Users/x/project/node_modules/dep") {
		t.Error("IsExcluded missed a configured substring")
	}
	if cfg.IsExcluded("/Users/x/Documents") {
		t.Error("IsExcluded matched an unrelated path")
	}
}
