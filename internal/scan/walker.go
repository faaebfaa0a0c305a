package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// ExpandPatterns resolves ~ prefixes and shell globs against the live
// filesystem. Patterns that match nothing are dropped; absence is expected
// (the corresponding tool may not be installed).
func ExpandPatterns(patterns []string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}

	var out []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "~") {
			p = home + p[1:]
		}
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				continue
			}
			out = append(out, matches...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

// RealPath canonicalizes a path for deduplication, resolving symlinks where
// possible and falling back to a cleaned absolute path.
func RealPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

// FileSize returns the on-disk footprint of a file from its block count,
// so sparse files and cloned blocks are not over-counted.
func FileSize(path string, info fs.FileInfo) int64 {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err == nil {
		return st.Blocks * 512
	}
	return info.Size()
}

// DirStats walks a directory and returns total physical size, file count,
// and the newest modification time seen. Symlinks are measured by their
// link entry and never followed, so a link cannot pull in an unrelated
// tree or double-count one. Per-path errors go to warn and the walk
// continues.
func DirStats(root string, minAge time.Duration, warn func(string)) (size int64, files int, newest time.Time) {
	cutoff := time.Now().Add(-minAge)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if warn != nil {
				warn("cannot read " + path + ": " + err.Error())
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Entry vanished mid-walk; skip, don't fail.
			if warn != nil {
				warn("cannot stat " + path + ": " + err.Error())
			}
			return nil
		}

		if minAge > 0 && info.ModTime().After(cutoff) {
			return nil
		}

		size += FileSize(path, info)
		files++
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})

	return size, files, newest
}

// PathStats measures a single target, which may be a file, symlink, or
// directory tree.
func PathStats(path string, minAge time.Duration, warn func(string)) (size int64, files int, newest time.Time, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, 0, time.Time{}, err
	}

	if !info.IsDir() {
		if minAge > 0 && info.ModTime().After(time.Now().Add(-minAge)) {
			return 0, 0, info.ModTime(), nil
		}
		return FileSize(path, info), 1, info.ModTime(), nil
	}

	size, files, newest = DirStats(path, minAge, warn)
	if newest.IsZero() {
		newest = info.ModTime()
	}
	return size, files, newest, nil
}
