// Package docpath maps logical document names onto output files.
//
// A document name is the slash-separated path of a source file relative to
// the source root, without extension: "subdir/subdirtwo/two". Every page and
// every relative link in the output tree is placed with the rules in Tree so
// that URLs computed for a page resolve from where the page is written.
package docpath

import (
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
)

// DocName is a logical document path.
type DocName string

// FromSourcePath derives a DocName from a file path relative to the source root.
func FromSourcePath(rel string) DocName {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return DocName(strings.Trim(path.Clean("/"+rel), "/"))
}

// Segments splits the name into its path segments.
func (d DocName) Segments() []string {
	if d == "" {
		return nil
	}
	return strings.Split(string(d), "/")
}

// Dir is the document's directory relative to the source root, "." at the top.
func (d DocName) Dir() string { return path.Dir(string(d)) }

// Leaf is the last segment.
func (d DocName) Leaf() string { return path.Base(string(d)) }

// IsIndex reports whether the document is a directory index page.
func (d DocName) IsIndex() bool { return d.Leaf() == "index" }

func (d DocName) String() string { return string(d) }

// Tree holds the output placement rules for one build.
type Tree struct {
	Layout  config.Layout
	RootDoc DocName
}

// Depth is the number of directories between the output root and the
// directory that holds doc's output file.
func (t Tree) Depth(doc DocName) int {
	if doc == t.RootDoc {
		return 0
	}
	depth := len(doc.Segments()) - 1
	if t.Layout == config.LayoutDirectory && !t.isSectionIndex(doc) {
		depth++
	}
	return max(depth, 0)
}

// OutputPath is doc's output file, slash-separated and relative to the output root.
func (t Tree) OutputPath(doc DocName) string {
	if t.Layout != config.LayoutDirectory {
		return string(doc) + ".html"
	}
	switch {
	case doc == t.RootDoc:
		return "index.html"
	case t.isSectionIndex(doc):
		return string(doc) + ".html"
	default:
		return string(doc) + "/index.html"
	}
}

// isSectionIndex reports an index page below the top level. In directory
// layout it is written as-is instead of getting its own directory; a top-level
// "index" that is not the root document would collide with the root page.
func (t Tree) isSectionIndex(doc DocName) bool {
	return doc.IsIndex() && doc.Dir() != "."
}

// RootPrefix is the "../" sequence leading from doc's output directory to the output root.
func (t Tree) RootPrefix(doc DocName) string {
	return strings.Repeat("../", t.Depth(doc))
}

// RelativeTo returns the URL of target (relative to the output root) as seen from doc.
func (t Tree) RelativeTo(doc DocName, target string) string {
	return t.RootPrefix(doc) + strings.TrimPrefix(target, "/")
}
