package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// treeRenderer produces a preformatted directory listing for a root. It is
// an injected collaborator so the external utility can be stubbed in tests
// and swapped for the native implementation when unavailable.
type treeRenderer interface {
	RenderTree(root string, xmlMode bool) (string, error)
}

// externalTreeRenderer shells out to the system `tree` utility.
type externalTreeRenderer struct{}

func (externalTreeRenderer) RenderTree(root string, xmlMode bool) (string, error) {
	bin, err := exec.LookPath("tree")
	if err != nil {
		return "", fmt.Errorf("tree utility not found: %w", err)
	}
	args := []string{"-n"}
	if xmlMode {
		args = append(args, "-X")
	}
	args = append(args, root)
	out, err := exec.Command(bin, args...).Output()
	if err != nil {
		return "", fmt.Errorf("tree failed for %s: %w", root, err)
	}
	return string(out), nil
}

// fallbackTreeRenderer tries the primary renderer and degrades to the
// secondary with a warning.
type fallbackTreeRenderer struct {
	primary   treeRenderer
	secondary treeRenderer
}

func (f fallbackTreeRenderer) RenderTree(root string, xmlMode bool) (string, error) {
	out, err := f.primary.RenderTree(root, xmlMode)
	if err == nil {
		return out, nil
	}
	warnf("external tree unavailable (%v), using built-in listing", err)
	return f.secondary.RenderTree(root, xmlMode)
}

// nativeTreeRenderer is the built-in listing used when the external tool is
// missing. It honors the run's hidden-file policy and sorts entries in the
// same version-aware order as discovery.
type nativeTreeRenderer struct {
	includeHidden bool
}

type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
}

func (r nativeTreeRenderer) RenderTree(root string, xmlMode bool) (string, error) {
	node, err := r.readTree(root, filepath.Base(filepath.Clean(root)))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if xmlMode {
		writeTreeXML(&b, node, 0)
	} else {
		b.WriteString(node.name)
		b.WriteString("\n")
		writeTreeText(&b, node.children, "")
	}
	return b.String(), nil
}

func (r nativeTreeRenderer) readTree(dir, name string) (*treeNode, error) {
	node := &treeNode{name: name, isDir: true}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return natural.Less(entries[i].Name(), entries[j].Name()) })
	for _, e := range entries {
		if !r.includeHidden && isHiddenName(e.Name()) {
			continue
		}
		if e.IsDir() {
			child, err := r.readTree(filepath.Join(dir, e.Name()), e.Name())
			if err != nil {
				warnf("tree: %v", err)
				continue
			}
			node.children = append(node.children, child)
		} else {
			node.children = append(node.children, &treeNode{name: e.Name()})
		}
	}
	return node, nil
}

func writeTreeText(b *strings.Builder, children []*treeNode, prefix string) {
	for i, node := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(node.name)
		b.WriteString("\n")
		if node.isDir {
			writeTreeText(b, node.children, childPrefix)
		}
	}
}

func writeTreeXML(b *strings.Builder, node *treeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if node.isDir {
		fmt.Fprintf(b, "%s<directory name=\"%s\">\n", indent, xmlEscape(node.name))
		for _, child := range node.children {
			writeTreeXML(b, child, depth+1)
		}
		fmt.Fprintf(b, "%s</directory>\n", indent)
		return
	}
	fmt.Fprintf(b, "%s<file name=\"%s\"/>\n", indent, xmlEscape(node.name))
}
