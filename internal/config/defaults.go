package config

import "fmt"

// Viewer asset locations used when the config does not override them.
const (
	DefaultPresentURI = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@latest/swagger-ui-standalone-preset.js"
	DefaultBundleURI  = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@latest/swagger-ui-bundle.js"
	DefaultCSSURI     = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@latest/swagger-ui.css"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier fills in the source/output tree settings.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	s := &cfg.Site
	if s.Title == "" {
		s.Title = "Documentation"
	}
	if s.SourceDir == "" {
		s.SourceDir = "docs"
	}
	if s.OutputDir == "" {
		s.OutputDir = "_build/html"
	}
	if s.RootDoc == "" {
		s.RootDoc = "index"
	}
	if s.Layout == "" {
		s.Layout = LayoutFlat
	}
	if s.StaticDir == "" {
		s.StaticDir = "_static"
	}
	return nil
}

// SwaggerDefaultApplier fills in viewer asset URIs.
type SwaggerDefaultApplier struct{}

func (SwaggerDefaultApplier) Domain() string { return "swagger" }

func (SwaggerDefaultApplier) ApplyDefaults(cfg *Config) error {
	sw := &cfg.Swagger
	if sw.PresentURI == "" {
		sw.PresentURI = DefaultPresentURI
	}
	if sw.BundleURI == "" {
		sw.BundleURI = DefaultBundleURI
	}
	if sw.CSSURI == "" {
		sw.CSSURI = DefaultCSSURI
	}
	if sw.StrictValidation {
		sw.ValidateSpecs = true
	}
	return nil
}

// LoggingDefaultApplier defaults logging to info/text.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}

// CompositeDefaultApplier runs domain appliers in order.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the standard applier chain.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{appliers: []DefaultApplier{
		SiteDefaultApplier{},
		SwaggerDefaultApplier{},
		LoggingDefaultApplier{},
	}}
}

func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	for _, a := range c.appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", a.Domain(), err)
		}
	}
	return nil
}
