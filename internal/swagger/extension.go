package swagger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/site"
)

const (
	// DirectiveSwagger embeds a viewer for a specification file.
	DirectiveSwagger = "swagger-plugin"
	// DirectiveInline embeds a configured standalone viewer by id.
	DirectiveInline = "inline-swagger"

	// DefaultContainerID is the id of the first viewer on a page without an explicit id.
	DefaultContainerID = "swagger-ui-container"
)

// Extension wires the viewer into a site build. State is reset on every
// Setup, so one Extension serves repeated builds.
type Extension struct {
	renderer *Renderer
	fetcher  *Fetcher

	env        *site.Env
	cfg        config.SwaggerConfig
	loc        *Locator
	pages      map[docpath.DocName]*pageState
	standalone []config.StandalonePage
	assets     []pendingAsset
	inline     []inlinePage
}

type pageState struct {
	specs    []EmbeddedSpec
	ids      map[string]bool
	fullPage *fullPageSpec
}

type fullPageSpec struct {
	asset  Asset
	config ViewerConfig
}

type pendingAsset struct {
	Asset
	doc  docpath.DocName
	line int
}

type inlinePage struct {
	file string
	html string
}

// Option configures an Extension.
type Option func(*Extension)

// WithFetcher replaces the asset downloader.
func WithFetcher(f *Fetcher) Option { return func(e *Extension) { e.fetcher = f } }

// New creates the extension.
func New(opts ...Option) *Extension {
	e := &Extension{renderer: NewRenderer()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extension) Name() string { return "swagger" }

// Setup registers the directives and hooks for one build.
func (e *Extension) Setup(reg *site.Registry) error {
	env := reg.Env()
	e.env = env
	e.cfg = env.Config.Swagger
	e.loc = NewLocator(LocatorConfig{
		SourceDir: env.SourceDir,
		OutputDir: env.OutputDir,
		StaticDir: env.StaticDir,
		Tree:      env.Tree,
	}, env.Logger)
	e.pages = make(map[docpath.DocName]*pageState)
	e.standalone = slices.Clone(e.cfg.Pages)
	e.assets = nil
	e.inline = nil
	if e.fetcher == nil {
		e.fetcher = NewFetcher(env.Logger, env.Recorder)
	}

	if err := reg.AddDirective(DirectiveSwagger, e.swaggerDirective); err != nil {
		return err
	}
	if err := reg.AddDirective(DirectiveInline, e.inlineDirective); err != nil {
		return err
	}
	reg.OnPageContext(e.pageContext)
	reg.OnCollectPages(e.collectPages)
	reg.OnBuildFinished(e.buildFinished)
	return nil
}

func (e *Extension) state(doc docpath.DocName) *pageState {
	st, ok := e.pages[doc]
	if !ok {
		st = &pageState{ids: make(map[string]bool)}
		e.pages[doc] = st
	}
	return st
}

func (e *Extension) swaggerDirective(dc *site.DirectiveContext, d site.Directive) (string, error) {
	doc := dc.Page.Doc
	if d.Argument == "" {
		return "", missingArgument(DirectiveSwagger, "the relative path to the specification", doc, d.Line)
	}
	asset, err := e.loc.Resolve(d.Argument, doc, d.Line)
	if err != nil {
		return "", err
	}
	cfg, err := ParseViewerConfig(d.Body)
	if err != nil {
		return "", invalidDirective(err.Error(), doc, d.Line)
	}
	cfg = cfg.WithURL(asset.URL)
	e.assets = append(e.assets, pendingAsset{Asset: asset, doc: doc, line: d.Line})

	st := e.state(doc)
	if _, full := d.Option("full-page"); full {
		if st.fullPage != nil || len(st.specs) > 0 {
			return "", invalidDirective("full-page must be the only swagger-plugin directive on a page", doc, d.Line)
		}
		st.fullPage = &fullPageSpec{asset: asset, config: cfg}
		return "", nil
	}
	if st.fullPage != nil {
		return "", invalidDirective("full-page must be the only swagger-plugin directive on a page", doc, d.Line)
	}

	id, err := st.containerID(d, doc)
	if err != nil {
		return "", err
	}
	var classes []string
	if v, ok := d.Option("classes"); ok {
		classes = strings.Fields(v)
	}
	st.specs = append(st.specs, EmbeddedSpec{ID: id, Config: cfg})
	return e.renderer.Container(id, classes)
}

// containerID returns the explicit id, DefaultContainerID for the first
// anonymous viewer, and a name-based UUID for later ones.
func (st *pageState) containerID(d site.Directive, doc docpath.DocName) (string, error) {
	if id, ok := d.Option("id"); ok && id != "" {
		if st.ids[id] {
			return "", invalidDirective(fmt.Sprintf("duplicate viewer id %q", id), doc, d.Line)
		}
		st.ids[id] = true
		return id, nil
	}
	id := DefaultContainerID
	if st.ids[id] {
		id = "swagger-ui-" + uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "%s#%d", doc, d.Line)).String()
	}
	st.ids[id] = true
	return id, nil
}

// inlineDirective renders a configured standalone entry into the static
// root and embeds it through an iframe. The standalone document carries its
// own doctype, head and scripts, which cannot be spliced into the body of
// another page.
func (e *Extension) inlineDirective(dc *site.DirectiveContext, d site.Directive) (string, error) {
	doc := dc.Page.Doc
	id, _ := d.Option("id")
	if id == "" {
		return "", missingArgument(DirectiveInline, "the :id: option", doc, d.Line)
	}
	idx := slices.IndexFunc(e.standalone, func(p config.StandalonePage) bool { return p.ID == id })
	if idx < 0 {
		return "", derrors.ConfigError(fmt.Sprintf("cannot find any swagger configuration with id %q", id)).
			WithContext(logfields.KeyDocument, doc.String()).
			WithContext(logfields.KeyLine, d.Line).
			Build()
	}
	entry := e.standalone[idx]
	e.standalone = slices.Delete(e.standalone, idx, idx+1)

	cfg, err := ViewerConfigFromNode(&entry.Options)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryConfig, "invalid swagger options").Fatal().
			WithContext(logfields.KeyID, id).Build()
	}
	// The generated file sits in the static root next to any vendored assets.
	html, err := e.renderer.Standalone(entry.Name, e.viewerAssets(func(file string) string { return file }), cfg)
	if err != nil {
		return "", err
	}
	file := id + ".html"
	e.inline = append(e.inline, inlinePage{file: file, html: html})
	return e.renderer.Inline(e.loc.StaticURL(doc, file), entry.Name)
}

// viewerAssets returns the viewer URIs, pointing at the vendored copies
// through local when vendoring is on.
func (e *Extension) viewerAssets(local func(file string) string) ViewerAssets {
	if !e.cfg.VendorAssets {
		return ViewerAssets{PresentURI: e.cfg.PresentURI, BundleURI: e.cfg.BundleURI, CSSURI: e.cfg.CSSURI}
	}
	return ViewerAssets{PresentURI: local(PresentFile), BundleURI: local(BundleFile), CSSURI: local(CSSFile)}
}

func (e *Extension) assetsFor(doc docpath.DocName) ViewerAssets {
	return e.viewerAssets(func(file string) string { return e.loc.StaticURL(doc, file) })
}

func (e *Extension) pageContext(pc *site.PageContext) error {
	st, ok := e.pages[pc.Page.Doc]
	if !ok {
		return nil
	}
	assets := e.assetsFor(pc.Page.Doc)

	if st.fullPage != nil {
		html, err := e.renderer.Standalone(e.fullPageTitle(pc.Page, st.fullPage.asset), assets, st.fullPage.config)
		if err != nil {
			return err
		}
		pc.Replace([]byte(html))
		return nil
	}
	if len(st.specs) == 0 {
		return nil
	}
	script, err := e.renderer.InitScript(st.specs)
	if err != nil {
		return err
	}
	pc.AddCSS(assets.CSSURI)
	pc.AddJS(assets.PresentURI)
	pc.AddJS(assets.BundleURI)
	pc.AddScript(script)
	return nil
}

func (e *Extension) fullPageTitle(page *site.Page, asset Asset) string {
	if page.HasTitle {
		return page.Title
	}
	if info, err := ReadSpecInfo(asset.Source); err == nil && info.Title != "" {
		return info.Title
	}
	return page.Title
}

// collectPages renders every configured standalone page that was not inlined.
func (e *Extension) collectPages(_ context.Context, env *site.Env) ([]site.GeneratedPage, error) {
	var out []site.GeneratedPage
	for _, entry := range e.standalone {
		if entry.Page == "" {
			env.Logger.Debug("Standalone viewer without page skipped", logfields.ID(entry.ID))
			continue
		}
		doc := docpath.DocName(entry.Page)
		cfg, err := ViewerConfigFromNode(&entry.Options)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid swagger options").Fatal().
				WithContext(logfields.KeyPage, entry.Page).Build()
		}
		html, err := e.renderer.Standalone(entry.Name, e.assetsFor(doc), cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, site.GeneratedPage{Doc: doc, Title: entry.Name, HTML: []byte(html)})
	}
	return out, nil
}
