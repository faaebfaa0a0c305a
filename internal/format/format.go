package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Size units, 1024-based.
const (
	KB = 1024
	MB = 1024 * KB
	GB = 1024 * MB
	TB = 1024 * GB
)

// Size renders a byte count as a human-readable string, e.g. "1.4 GB".
func Size(bytes int64) string {
	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// ParseSize parses strings like "500MB", "1.5 GB", or "2048" (bytes).
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	mult := int64(1)
	for _, suffix := range []struct {
		name string
		mult int64
	}{
		{"TB", TB}, {"GB", GB}, {"MB", MB}, {"KB", KB}, {"B", 1},
	} {
		if strings.HasSuffix(s, suffix.name) {
			mult = suffix.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix.name))
			break
		}
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if val < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	return int64(val * float64(mult)), nil
}

// Truncate shortens a string to max runes, appending "…" when cut.
func Truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// TruncatePath shortens a long path from the middle, keeping the head and
// the final component visible.
func TruncatePath(path string, max int) string {
	if len(path) <= max || max < 8 {
		return path
	}
	keep := (max - 1) / 2
	return path[:keep] + "…" + path[len(path)-keep:]
}
