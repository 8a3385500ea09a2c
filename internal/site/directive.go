package site

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var (
	fenceInfo  = regexp.MustCompile(`^\{([a-z][a-z0-9-]*)\}\s*(.*)$`)
	optionLine = regexp.MustCompile(`^:([A-Za-z0-9_-]+):(?:\s+(.*))?$`)
)

// parseDirective reads a fenced code block as a directive. ok is false for
// ordinary code blocks.
func parseDirective(n *ast.FencedCodeBlock, source []byte) (d Directive, ok bool) {
	if n.Info == nil {
		return Directive{}, false
	}
	m := fenceInfo.FindStringSubmatch(strings.TrimSpace(string(n.Info.Segment.Value(source))))
	if m == nil {
		return Directive{}, false
	}
	d.Name = m[1]
	d.Argument = strings.TrimSpace(m[2])

	var body bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		body.Write(seg.Value(source))
	}
	d.Options, d.Body = splitOptions(body.String())
	return d, true
}

// splitOptions consumes leading ":key: value" lines.
func splitOptions(body string) ([]DirectiveOption, string) {
	var opts []DirectiveOption
	rest := body
	for rest != "" {
		line, tail, _ := strings.Cut(rest, "\n")
		m := optionLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			break
		}
		opts = append(opts, DirectiveOption{Key: m[1], Value: strings.TrimSpace(m[2])})
		rest = tail
	}
	return opts, rest
}

// KindDirective marks an expanded directive in the document tree.
var KindDirective = ast.NewNodeKind("Directive")

// directiveNode replaces a directive block with pre-rendered HTML.
type directiveNode struct {
	ast.BaseBlock
	html string
}

func (n *directiveNode) Kind() ast.NodeKind { return KindDirective }

func (n *directiveNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"HTML": n.html}, nil)
}

type directiveRenderer struct{}

func (directiveRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDirective, renderDirectiveNode)
}

func renderDirectiveNode(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		out := n.(*directiveNode).html
		_, _ = w.WriteString(out)
		if out != "" && !strings.HasSuffix(out, "\n") {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkSkipChildren, nil
}
