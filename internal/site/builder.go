package site

import (
	"context"
	"log/slog"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/metrics"
)

// Builder renders a documentation tree. A Builder may run several builds in
// sequence; each build gets a fresh Registry.
type Builder struct {
	cfg        *config.Config
	extensions []Extension
	logger     *slog.Logger
	recorder   metrics.Recorder
	observer   BuildObserver
	md         goldmark.Markdown
	shell      *shell
}

// Option configures a Builder.
type Option func(*Builder)

func WithLogger(l *slog.Logger) Option        { return func(b *Builder) { b.logger = l } }
func WithRecorder(r metrics.Recorder) Option  { return func(b *Builder) { b.recorder = r } }
func WithObserver(o BuildObserver) Option     { return func(b *Builder) { b.observer = o } }
func WithExtensions(exts ...Extension) Option { return func(b *Builder) { b.extensions = append(b.extensions, exts...) } }

// NewBuilder creates a builder for a finalized configuration.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		observer: NoopObserver{},
		md:       newMarkdown(),
		shell:    newShell(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Env builds the environment a build of this configuration runs in.
func (b *Builder) Env() *Env {
	return &Env{
		Config:    b.cfg,
		Tree:      docpath.Tree{Layout: b.cfg.Site.Layout, RootDoc: docpath.DocName(b.cfg.Site.RootDoc)},
		SourceDir: b.cfg.SourcePath(),
		OutputDir: b.cfg.OutputPath(),
		StaticDir: b.cfg.Site.StaticDir,
		Logger:    b.logger,
		Recorder:  b.recorder,
	}
}

// Build runs one complete build. The report is returned even when the build
// fails.
func (b *Builder) Build(ctx context.Context) (*BuildReport, error) {
	env := b.Env()
	bs := &buildState{
		builder: b,
		env:     env,
		reg:     NewRegistry(env),
		report:  newBuildReport(),
		written: make(map[docpath.DocName]string),
	}
	env.warn = func(err error) { bs.report.addWarning(bs.stage, err) }

	observer := multiObserver{recorderObserver{rec: b.recorder, logger: b.logger}, b.observer}

	for _, ext := range b.extensions {
		if err := ext.Setup(bs.reg); err != nil {
			if !derrors.IsClassified(err) {
				err = derrors.WrapError(err, derrors.CategoryInternal, "extension setup failed").
					Fatal().WithContext(logfields.KeyExtension, ext.Name()).Build()
			}
			bs.report.AddIssue(issueCode(err), "", SeverityError, err.Error(), false, err)
			bs.report.finish()
			bs.report.deriveOutcome()
			return bs.report, err
		}
		b.logger.Debug("Extension ready", logfields.Extension(ext.Name()))
	}

	b.logger.Info("Building documentation",
		logfields.Path(env.SourceDir),
		logfields.Layout(string(env.Tree.Layout)))

	err := runStages(ctx, bs, b.stages(), observer)
	bs.report.finish()
	bs.report.deriveOutcome()
	observer.OnBuildComplete(bs.report)

	if err != nil {
		b.logger.Error("Build failed", logfields.Error(err))
		return bs.report, unwrapStageError(err)
	}
	b.logger.Info("Build complete", slog.String("summary", bs.report.Summary()))
	return bs.report, nil
}

// unwrapStageError returns the classified cause of a stage failure so that
// callers see the document and line of the problem.
func unwrapStageError(err error) error {
	if se, ok := err.(*StageError); ok && derrors.IsClassified(se.Err) {
		return se.Err
	}
	return err
}
