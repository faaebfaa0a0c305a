package diskusage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel string, size int) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("big/data.bin", 4096)
	write("big/more.bin", 4096)
	write("small/tiny.txt", 10)
	write("top.txt", 100)
	return root
}

func TestScanBuildsSortedTree(t *testing.T) {
	root := buildTree(t)

	tree, err := NewAnalyzer(2, 0, 0).Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if !tree.IsDir || len(tree.Children) != 3 {
		t.Fatalf("root children = %d, want 3", len(tree.Children))
	}
	if tree.Children[0].Name != "big" {
		t.Errorf("largest child first = %q, want big", tree.Children[0].Name)
	}

	// Parent size is the sum of its children.
	var sum int64
	for _, c := range tree.Children {
		sum += c.Size
	}
	if tree.Size != sum {
		t.Errorf("root size %d != children sum %d", tree.Size, sum)
	}

	big := tree.Children[0]
	if len(big.Children) != 2 || big.Size == 0 {
		t.Errorf("big subtree = %+v", big)
	}
	if big.Children[0].Parent != big {
		t.Error("parent link not set")
	}
}

func TestScanSingleFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "only.txt")
	if err := os.WriteFile(file, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := NewAnalyzer(1, 0, 0).Scan(context.Background(), file)
	if err != nil {
		t.Fatal(err)
	}
	if tree.IsDir || tree.Size == 0 || len(tree.Children) != 0 {
		t.Errorf("file node = %+v", tree)
	}
}

func TestScanDepthCapStillMeasures(t *testing.T) {
	root := buildTree(t)

	tree, err := NewAnalyzer(2, 1, 0).Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	deep, err := NewAnalyzer(2, 0, 0).Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	// Capping depth flattens subtrees but must not change totals.
	if tree.Size != deep.Size {
		t.Errorf("capped size %d != uncapped size %d", tree.Size, deep.Size)
	}
	for _, c := range tree.Children {
		if c.Name == "big" && len(c.Children) != 0 {
			t.Errorf("depth cap did not flatten big: %d children", len(c.Children))
		}
	}
}

func TestScanFoldsLongTail(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 10; i++ {
		name := filepath.Join(root, "f"+string(rune('a'+i)))
		if err := os.WriteFile(name, make([]byte, 100*(i+1)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tree, err := NewAnalyzer(1, 0, 4).Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if len(tree.Children) != 5 {
		t.Fatalf("children = %d, want 4 kept + 1 synthetic", len(tree.Children))
	}
	last := tree.Children[4]
	if !last.Synthetic {
		t.Fatalf("last child not synthetic: %+v", last)
	}

	// The fold preserves the level total.
	var sum int64
	for _, c := range tree.Children {
		sum += c.Size
	}
	if sum != tree.Size {
		t.Errorf("folded sum %d != total %d", sum, tree.Size)
	}
}

func TestSearchTree(t *testing.T) {
	root := buildTree(t)
	tree, err := NewAnalyzer(1, 0, 0).Scan(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	hits := searchTree(tree, "BIN", 50)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2 case-insensitive matches", len(hits))
	}
	if hits[0].Size < hits[1].Size {
		t.Error("search results not sorted largest first")
	}

	if got := searchTree(tree, "", 50); got != nil {
		t.Errorf("empty query returned %v", got)
	}
}

func TestVolume(t *testing.T) {
	vol, err := Volume(os.TempDir())
	if err != nil {
		t.Skipf("volume stats unavailable: %v", err)
	}
	if vol.TotalBytes == 0 {
		t.Error("TotalBytes = 0")
	}
	if vol.UsedPercent < 0 || vol.UsedPercent > 100 {
		t.Errorf("UsedPercent = %f", vol.UsedPercent)
	}
}
