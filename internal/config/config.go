package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Version is the release version reported by the CLI and the boundary API.
const Version = "0.3.0"

// Config holds tunables read from <data>/config. Every field has a sane
// default so a missing config file is never an error.
type Config struct {
	// RetentionDays is how long quarantined sessions are kept before they
	// are considered expired.
	RetentionDays int

	// MaxWorkers bounds the scanner worker pool. 0 means auto.
	MaxWorkers int

	// LogMaxSizeMB and LogMaxAgeDays control audit log rotation.
	LogMaxSizeMB  int
	LogMaxAgeDays int

	// ExcludePaths are substrings; any scanned path containing one is skipped.
	ExcludePaths []string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RetentionDays: 7,
		MaxWorkers:    0,
		LogMaxSizeMB:  10,
		LogMaxAgeDays: 30,
	}
}

// DataDir returns the macmole state directory. MACMOLE_DATA_DIR overrides
// the default ~/.macmole, which lets tests redirect all state to a temp dir.
func DataDir() string {
	if d := os.Getenv("MACMOLE_DATA_DIR"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "macmole")
	}
	return filepath.Join(home, ".macmole")
}

// StagingDir is the quarantine area for soft-deleted content.
func StagingDir() string {
	return filepath.Join(DataDir(), "staging")
}

// LogsDir holds the rotating audit log.
func LogsDir() string {
	return filepath.Join(DataDir(), "logs")
}

// ConfigPath is the key=value config file location.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config")
}

// InitDirs creates the data, staging, and log directories.
func InitDirs() error {
	for _, dir := range []string{DataDir(), StagingDir(), LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads the config file, falling back to defaults for missing or
// malformed entries. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	file, err := os.Open(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "retention_days":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cfg.RetentionDays = n
			}
		case "max_workers":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				cfg.MaxWorkers = n
			}
		case "log_max_size":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cfg.LogMaxSizeMB = n
			}
		case "log_max_age":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cfg.LogMaxAgeDays = n
			}
		case "exclude_paths":
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p != "" {
					cfg.ExcludePaths = append(cfg.ExcludePaths, p)
				}
			}
		}
	}

	return cfg, scanner.Err()
}

// IsExcluded reports whether a path matches any configured exclusion.
func (c *Config) IsExcluded(path string) bool {
	for _, p := range c.ExcludePaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}
