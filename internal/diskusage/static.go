package diskusage

import (
	"fmt"
	"io"
	"strings"

	"github.com/lakshaymaurya-felt/macmole/internal/format"
)

// PrintStaticTree writes a plain-text tree of the usage results. Used when
// stdout is not a terminal and the interactive browser cannot render.
// maxDepth 0 means unlimited; minSize 0 shows everything.
func PrintStaticTree(w io.Writer, root *Node, maxDepth int, minSize int64) {
	if root == nil {
		fmt.Fprintln(w, "  No data to display.")
		return
	}

	fmt.Fprintf(w, "  Disk usage: %s\n", root.Path)
	fmt.Fprintf(w, "  Total size: %s\n", format.Size(root.Size))
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	fmt.Fprintln(w)

	printNode(w, root, "", true, 0, maxDepth, minSize)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+strings.Repeat("-", 58))
	fmt.Fprintf(w, "  Total: %s\n", format.Size(root.Size))
}

// printNode recursively prints one entry with ASCII connectors.
func printNode(w io.Writer, node *Node, prefix string, isLast bool, depth, maxDepth int, minSize int64) {
	if node == nil {
		return
	}
	if maxDepth > 0 && depth > maxDepth {
		return
	}
	if minSize > 0 && node.Size < minSize {
		return
	}

	connector := "+-- "
	childPrefix := "|   "
	if isLast {
		connector = "\\-- "
		childPrefix = "    "
	}
	if depth == 0 {
		connector = ""
		childPrefix = ""
	}

	dirMarker := ""
	if node.IsDir {
		dirMarker = "/"
	}
	fmt.Fprintf(w, "  %s%s%s%s  %s\n", prefix, connector, node.Name, dirMarker, format.Size(node.Size))

	if !node.IsDir || len(node.Children) == 0 {
		return
	}

	// Children are already sorted largest first; cap each level.
	children := node.Children
	maxShow := 20
	if len(children) > maxShow {
		for i, child := range children[:maxShow] {
			printNode(w, child, prefix+childPrefix, i == maxShow-1, depth+1, maxDepth, minSize)
		}
		fmt.Fprintf(w, "  %s\\-- ... and %d more entries\n", prefix+childPrefix, len(children)-maxShow)
		return
	}
	for i, child := range children {
		printNode(w, child, prefix+childPrefix, i == len(children)-1, depth+1, maxDepth, minSize)
	}
}
