package swagger

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.p2
var templateFS embed.FS

// Renderer produces viewer markup from the embedded pongo2 templates.
type Renderer struct {
	set *pongo2.TemplateSet
}

// NewRenderer loads the embedded template set.
func NewRenderer() *Renderer {
	sub, _ := fs.Sub(templateFS, "templates")
	return &Renderer{set: pongo2.NewSet("swagger", pongo2.NewFSLoader(sub))}
}

// ViewerAssets are the three viewer URIs as seen from the page being rendered.
type ViewerAssets struct {
	PresentURI string
	BundleURI  string
	CSSURI     string
}

// Standalone renders a complete viewer page: title, stylesheet, container
// and the init script for a single specification.
func (r *Renderer) Standalone(title string, assets ViewerAssets, cfg ViewerConfig) (string, error) {
	js, err := cfg.JSON()
	if err != nil {
		return "", err
	}
	return r.execute("standalone.p2", pongo2.Context{
		"name":        title,
		"css_uri":     assets.CSSURI,
		"present_uri": assets.PresentURI,
		"bundle_uri":  assets.BundleURI,
		"config":      js,
	})
}

// Container renders the element a viewer mounts into.
func (r *Renderer) Container(id string, classes []string) (string, error) {
	return r.execute("container.p2", pongo2.Context{"id": id, "classes": classes})
}

// EmbeddedSpec is one viewer instance on an embedding page.
type EmbeddedSpec struct {
	ID     string
	Config ViewerConfig
}

// InitScript renders the script that starts every viewer on a page. Each
// config gets dom_id pointing at its container.
func (r *Renderer) InitScript(specs []EmbeddedSpec) (string, error) {
	items := make([]pongo2.Context, 0, len(specs))
	for _, s := range specs {
		cfg, err := s.Config.With("dom_id", "#"+s.ID)
		if err != nil {
			return "", err
		}
		js, err := cfg.JSON()
		if err != nil {
			return "", err
		}
		key, err := json.Marshal(s.ID)
		if err != nil {
			return "", err
		}
		items = append(items, pongo2.Context{"key": string(key), "config": js})
	}
	return r.execute("init.p2", pongo2.Context{"specs": items})
}

// Inline renders the frame that embeds a generated viewer page.
func (r *Renderer) Inline(src, name string) (string, error) {
	return r.execute("inline.p2", pongo2.Context{"src": src, "name": name})
}

func (r *Renderer) execute(name string, ctx pongo2.Context) (string, error) {
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("load template %s: %w", name, err)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return out, nil
}
