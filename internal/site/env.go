package site

import (
	"log/slog"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/metrics"
)

// Env is the read-only environment of one build.
type Env struct {
	Config    *config.Config
	Tree      docpath.Tree
	SourceDir string
	OutputDir string
	StaticDir string // directory name under OutputDir
	Logger    *slog.Logger
	Recorder  metrics.Recorder

	warn func(error)
}

// StaticOutputDir is the absolute static root in the output tree.
func (e *Env) StaticOutputDir() string {
	return filepath.Join(e.OutputDir, e.StaticDir)
}

// Warn records a non-fatal problem in the build report.
func (e *Env) Warn(err error) {
	if err == nil {
		return
	}
	e.Logger.Warn("Build warning", logfields.Error(err))
	if e.warn != nil {
		e.warn(err)
	}
}

// Page is a source document being built.
type Page struct {
	Doc    docpath.DocName
	Source string         // absolute source path
	Meta   map[string]any // front matter
	Title  string
	Body   string // rendered HTML fragment

	// HasTitle is false when Title was derived from the document name.
	HasTitle bool
}

// Directive is one parsed directive block.
type Directive struct {
	Name     string
	Argument string
	Options  []DirectiveOption
	Body     string
	Line     int // 1-based line of the opening fence in the source file
}

// DirectiveOption is a ":key: value" line of a directive.
type DirectiveOption struct {
	Key   string
	Value string
}

// Option returns the value of key and whether it was given. Flag options
// such as ":full-page:" have an empty value.
func (d Directive) Option(key string) (string, bool) {
	for _, o := range d.Options {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// DirectiveContext is handed to directive handlers.
type DirectiveContext struct {
	Env  *Env
	Page *Page
}

// DirectiveFunc renders a directive to HTML that replaces the block.
type DirectiveFunc func(dc *DirectiveContext, d Directive) (string, error)

// PageContext is the mutable render context of a page before it is written.
type PageContext struct {
	Env     *Env
	Page    *Page
	CSS     []string
	JS      []string
	Scripts []string

	document []byte
}

// AddCSS adds a stylesheet link once.
func (pc *PageContext) AddCSS(href string) {
	if !slices.Contains(pc.CSS, href) {
		pc.CSS = append(pc.CSS, href)
	}
}

// AddJS adds a script reference once.
func (pc *PageContext) AddJS(src string) {
	if !slices.Contains(pc.JS, src) {
		pc.JS = append(pc.JS, src)
	}
}

// AddScript appends an inline script body.
func (pc *PageContext) AddScript(body string) {
	pc.Scripts = append(pc.Scripts, body)
}

// Replace makes the page's output exactly doc instead of the page shell.
func (pc *PageContext) Replace(doc []byte) {
	pc.document = doc
}

// GeneratedPage is a complete page contributed by an extension.
type GeneratedPage struct {
	Doc   docpath.DocName
	Title string
	HTML  []byte
}
