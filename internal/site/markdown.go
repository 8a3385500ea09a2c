package site

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(directiveRenderer{}, 100)),
		),
	)
}

type directiveBlock struct {
	node      *ast.FencedCodeBlock
	directive Directive
}

// renderMarkdown converts body to HTML, expanding registered directives in
// document order. lineOffset is the number of source lines before body.
func renderMarkdown(md goldmark.Markdown, reg *Registry, page *Page, body []byte, lineOffset int) (string, error) {
	doc := md.Parser().Parse(text.NewReader(body))

	var blocks []directiveBlock
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		d, ok := parseDirective(fcb, body)
		if ok {
			d.Line = bytes.Count(body[:fcb.Info.Segment.Start], []byte("\n")) + 1 + lineOffset
			blocks = append(blocks, directiveBlock{node: fcb, directive: d})
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return "", err
	}

	dc := &DirectiveContext{Env: reg.Env(), Page: page}
	for _, b := range blocks {
		fn, ok := reg.directive(b.directive.Name)
		if !ok {
			reg.Env().Warn(derrors.ValidationError(fmt.Sprintf("unknown directive %q", b.directive.Name)).
				Warning().
				WithContext(logfields.KeyDocument, page.Doc.String()).
				WithContext(logfields.KeyLine, b.directive.Line).
				Build())
			continue
		}
		out, err := fn(dc, b.directive)
		if err != nil {
			return "", directiveError(err, page, b.directive)
		}
		parent := b.node.Parent()
		parent.ReplaceChild(parent, b.node, &directiveNode{html: out})
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, doc); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryBuild, "render markdown").
			WithContext(logfields.KeyDocument, page.Doc.String()).
			Build()
	}
	return buf.String(), nil
}

// directiveError keeps classified handler errors and attaches the location to
// anything else.
func directiveError(err error, page *Page, d Directive) error {
	if derrors.IsClassified(err) {
		return err
	}
	return derrors.WrapError(err, derrors.CategoryBuild, fmt.Sprintf("directive %s failed", d.Name)).
		Fatal().
		WithContext(logfields.KeyDocument, page.Doc.String()).
		WithContext(logfields.KeyLine, d.Line).
		Build()
}
