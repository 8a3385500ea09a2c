package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/metrics"
	"git.home.luguber.info/inful/swaggerdoc/internal/site"
	"git.home.luguber.info/inful/swaggerdoc/internal/swagger"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source string `short:"s" help:"Documentation source directory (overrides site.source_dir)"`
	Output string `short:"o" help:"Output directory (overrides site.output_dir)"`
	Layout string `help:"Page layout: flat or directory (overrides site.layout)"`
	Clean  bool   `help:"Remove the output directory before building"`
	Strict bool   `help:"Fail the build when a spec does not validate"`
}

func (b *BuildCmd) Run(ctx context.Context, root *CLI) error {
	cfg, logger, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := b.applyOverrides(cfg); err != nil {
		return err
	}
	_, err = newSiteBuild(cfg, logger).run(ctx)
	return err
}

func (b *BuildCmd) applyOverrides(cfg *config.Config) error {
	if b.Source != "" {
		abs, err := filepath.Abs(b.Source)
		if err != nil {
			return err
		}
		cfg.Site.SourceDir = abs
	}
	if b.Output != "" {
		abs, err := filepath.Abs(b.Output)
		if err != nil {
			return err
		}
		cfg.Site.OutputDir = abs
	}
	if b.Layout != "" {
		l, err := config.ParseLayout(b.Layout)
		if err != nil {
			return err
		}
		cfg.Site.Layout = l
	}
	if b.Clean {
		cfg.Site.Clean = true
	}
	if b.Strict {
		cfg.Swagger.ValidateSpecs = true
		cfg.Swagger.StrictValidation = true
	}
	return config.ValidateConfig(cfg)
}

// siteBuild wires the builder, the swagger extension and a Prometheus
// registry. It can run repeatedly against the same registry.
type siteBuild struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prom.Registry
	builder  *site.Builder
}

func newSiteBuild(cfg *config.Config, logger *slog.Logger) *siteBuild {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	builder := site.NewBuilder(cfg,
		site.WithLogger(logger),
		site.WithRecorder(rec),
		site.WithExtensions(swagger.New(swagger.WithFetcher(swagger.NewFetcher(logger, rec)))),
	)
	return &siteBuild{cfg: cfg, logger: logger, registry: reg, builder: builder}
}

func (s *siteBuild) run(ctx context.Context) (*site.BuildReport, error) {
	report, err := s.builder.Build(ctx)
	if path := s.cfg.MetricsPath(); path != "" {
		if werr := metrics.WriteTextfile(s.registry, path); werr != nil {
			s.logger.Warn("Failed to write metrics file", logfields.Path(path), logfields.Error(werr))
		}
	}
	if err == nil && report.Outcome == site.OutcomeWarning {
		s.logger.Warn("Build finished with warnings", slog.Int("warnings", len(report.Warnings)))
	}
	return report, err
}
