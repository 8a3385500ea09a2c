package site

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.p2
var templateFS embed.FS

// shell wraps rendered page bodies in the HTML page template.
type shell struct {
	set *pongo2.TemplateSet
}

func newShell() *shell {
	sub, _ := fs.Sub(templateFS, "templates")
	return &shell{set: pongo2.NewSet("site", pongo2.NewFSLoader(sub))}
}

func (s *shell) render(pc *PageContext, siteTitle, home string) (string, error) {
	tpl, err := s.set.FromCache("page.p2")
	if err != nil {
		return "", fmt.Errorf("load page template: %w", err)
	}
	out, err := tpl.Execute(pongo2.Context{
		"title":      pc.Page.Title,
		"site_title": siteTitle,
		"home":       home,
		"css":        pc.CSS,
		"js":         pc.JS,
		"scripts":    pc.Scripts,
		"body":       pc.Page.Body,
	})
	if err != nil {
		return "", fmt.Errorf("render page %s: %w", pc.Page.Doc, err)
	}
	return out, nil
}
