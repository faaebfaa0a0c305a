package diskusage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

// Node is one file or directory in the usage tree.
type Node struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	IsDir    bool      `json:"is_dir"`
	Children []*Node   `json:"children,omitempty"`
	Parent   *Node     `json:"-"`
	ModTime  time.Time `json:"mod_time"`

	// Synthetic marks the aggregate "other" node that folds the long tail
	// of small children past the per-level cap.
	Synthetic bool `json:"synthetic,omitempty"`
}

// IsOld reports whether the entry has been untouched for 6+ months.
func (n *Node) IsOld() bool {
	return !n.Synthetic && time.Since(n.ModTime) > 180*24*time.Hour
}

// Percentage returns the node's share of a parent size.
func (n *Node) Percentage(parentSize int64) float64 {
	if parentSize == 0 {
		return 0
	}
	return float64(n.Size) / float64(parentSize) * 100
}

// VolumeStats is capacity information for the filesystem holding a path.
type VolumeStats struct {
	Mountpoint  string  `json:"mountpoint"`
	Fstype      string  `json:"fstype"`
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// Volume reports the capacity of the filesystem containing path.
func Volume(path string) (*VolumeStats, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return nil, err
	}
	return &VolumeStats{
		Mountpoint:  usage.Path,
		Fstype:      usage.Fstype,
		TotalBytes:  usage.Total,
		UsedBytes:   usage.Used,
		FreeBytes:   usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}

// Analyzer performs parallel recursive usage scans. Depth and per-level
// child caps keep the tree bounded on large filesystems; everything past
// the cap is folded into one synthetic node so level totals stay exact.
type Analyzer struct {
	sem         chan struct{}
	maxDepth    int
	maxChildren int

	mu       sync.Mutex
	warnings []string
	scanned  atomic.Int64
}

// NewAnalyzer creates an analyzer with bounded concurrency. maxDepth 0
// means unlimited; maxChildren <= 0 selects a default of 50 per level.
func NewAnalyzer(maxConcurrency, maxDepth, maxChildren int) *Analyzer {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	if maxChildren <= 0 {
		maxChildren = 50
	}
	return &Analyzer{
		sem:         make(chan struct{}, maxConcurrency),
		maxDepth:    maxDepth,
		maxChildren: maxChildren,
	}
}

// Warnings returns per-path failures accumulated during the last scan.
func (a *Analyzer) Warnings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.warnings...)
}

// ScannedCount returns the number of entries visited so far, for progress
// display while a scan runs.
func (a *Analyzer) ScannedCount() int64 {
	return a.scanned.Load()
}

func (a *Analyzer) warn(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.warnings) < 500 {
		a.warnings = append(a.warnings, msg)
	}
}

// Scan builds the usage tree under root. Cancelling ctx stops descent and
// returns the partial tree with the sizes measured so far.
func (a *Analyzer) Scan(ctx context.Context, rootPath string) (*Node, error) {
	rootPath = filepath.Clean(rootPath)

	info, err := os.Lstat(rootPath)
	if err != nil {
		return nil, err
	}

	root := &Node{
		Path:    rootPath,
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !info.IsDir() {
		root.Size = info.Size()
		return root, nil
	}

	a.scanDir(ctx, root, 0)
	a.finalize(root)
	return root, nil
}

// scanDir recursively scans a directory. The semaphore is held only during
// ReadDir so nested goroutines cannot deadlock on acquisition. Symlinks are
// counted by their link entry and never followed.
func (a *Analyzer) scanDir(ctx context.Context, node *Node, depth int) {
	if ctx.Err() != nil {
		return
	}

	a.sem <- struct{}{}
	entries, err := os.ReadDir(node.Path)
	<-a.sem

	if err != nil {
		a.warn("cannot read " + node.Path + ": " + err.Error())
		return
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, e := range entries {
		childPath := filepath.Join(node.Path, e.Name())
		a.scanned.Add(1)

		info, err := e.Info()
		if err != nil {
			a.warn("cannot stat " + childPath + ": " + err.Error())
			continue
		}

		child := &Node{
			Path:    childPath,
			Name:    e.Name(),
			IsDir:   e.IsDir() && info.Mode()&os.ModeSymlink == 0,
			Parent:  node,
			ModTime: info.ModTime(),
		}

		switch {
		case !child.IsDir:
			child.Size = scan.FileSize(childPath, info)
		case a.maxDepth > 0 && depth+1 >= a.maxDepth:
			// Depth cap: measure the subtree flat instead of descending.
			size, _, _ := scan.DirStats(childPath, 0, a.warn)
			child.Size = size
		default:
			wg.Add(1)
			go func(dir *Node) {
				defer wg.Done()
				a.scanDir(ctx, dir, depth+1)
			}(child)
		}

		mu.Lock()
		node.Children = append(node.Children, child)
		mu.Unlock()
	}

	wg.Wait()
}

// finalize sums sizes bottom-up, sorts each level largest first, and folds
// children past the cap into a synthetic "other" node.
func (a *Analyzer) finalize(node *Node) {
	if !node.IsDir {
		return
	}

	var total int64
	for _, child := range node.Children {
		a.finalize(child)
		total += child.Size
	}
	node.Size = total

	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Size > node.Children[j].Size
	})

	if len(node.Children) > a.maxChildren {
		var foldedSize int64
		folded := 0
		for _, child := range node.Children[a.maxChildren:] {
			foldedSize += child.Size
			folded++
		}
		other := &Node{
			Path:      node.Path,
			Name:      "(" + strconv.Itoa(folded) + " smaller entries)",
			Size:      foldedSize,
			Parent:    node,
			Synthetic: true,
		}
		node.Children = append(node.Children[:a.maxChildren:a.maxChildren], other)
	}
}
