package site

import (
	"context"
	"fmt"
	"regexp"
)

// Extension plugs into a build. Setup is called once per build with a fresh
// Registry, so extensions reset their per-build state there.
type Extension interface {
	Name() string
	Setup(reg *Registry) error
}

type (
	// PageContextFunc runs for every markdown page before it is written.
	PageContextFunc func(pc *PageContext) error
	// CollectPagesFunc contributes additional complete pages.
	CollectPagesFunc func(ctx context.Context, env *Env) ([]GeneratedPage, error)
	// BuildFinishedFunc runs after all pages are written.
	BuildFinishedFunc func(ctx context.Context, env *Env) error
)

var directiveName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Registry collects the hooks of all extensions for one build.
type Registry struct {
	env           *Env
	directives    map[string]DirectiveFunc
	pageContext   []PageContextFunc
	collectPages  []CollectPagesFunc
	buildFinished []BuildFinishedFunc
}

// NewRegistry creates an empty registry bound to env.
func NewRegistry(env *Env) *Registry {
	return &Registry{env: env, directives: make(map[string]DirectiveFunc)}
}

// Env returns the build environment.
func (r *Registry) Env() *Env { return r.env }

// AddDirective registers a handler for ```{name} blocks.
func (r *Registry) AddDirective(name string, fn DirectiveFunc) error {
	if !directiveName.MatchString(name) {
		return fmt.Errorf("invalid directive name %q", name)
	}
	if _, exists := r.directives[name]; exists {
		return fmt.Errorf("directive %q already registered", name)
	}
	r.directives[name] = fn
	return nil
}

func (r *Registry) directive(name string) (DirectiveFunc, bool) {
	fn, ok := r.directives[name]
	return fn, ok
}

func (r *Registry) OnPageContext(fn PageContextFunc)     { r.pageContext = append(r.pageContext, fn) }
func (r *Registry) OnCollectPages(fn CollectPagesFunc)   { r.collectPages = append(r.collectPages, fn) }
func (r *Registry) OnBuildFinished(fn BuildFinishedFunc) { r.buildFinished = append(r.buildFinished, fn) }
