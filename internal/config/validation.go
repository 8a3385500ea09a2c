package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
)

// ValidateConfig checks a defaulted configuration.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	return cv.validateSwagger()
}

func (cv *configurationValidator) validateSite() error {
	s := cv.config.Site
	if !layoutNormalizer.IsValid(s.Layout) {
		return invalid("site.layout", fmt.Sprintf("unsupported layout %q", s.Layout))
	}
	if strings.Contains(s.RootDoc, "/") {
		return invalid("site.root_doc", fmt.Sprintf("root document %q must be at the top of the source tree", s.RootDoc))
	}
	if strings.ContainsAny(s.StaticDir, `/\`) || s.StaticDir == "." || s.StaticDir == ".." {
		return invalid("site.static_dir", "must be a single directory name")
	}
	src := filepath.Clean(cv.config.SourcePath())
	out := filepath.Clean(cv.config.OutputPath())
	if src == out {
		return invalid("site.output_dir", "must differ from site.source_dir")
	}
	if rel, err := filepath.Rel(out, src); err == nil && !strings.HasPrefix(rel, "..") {
		return invalid("site.output_dir", "must not contain site.source_dir")
	}
	return nil
}

func (cv *configurationValidator) validateSwagger() error {
	ids := make(map[string]struct{})
	pages := make(map[string]struct{})
	for i, p := range cv.config.Swagger.Pages {
		field := fmt.Sprintf("swagger.pages[%d]", i)
		if p.Page == "" && p.ID == "" {
			return invalid(field, "either page or id is required")
		}
		if p.ID != "" {
			if strings.ContainsAny(p.ID, `/\ `) {
				return invalid(field+".id", fmt.Sprintf("id %q must not contain slashes or spaces", p.ID))
			}
			if _, dup := ids[p.ID]; dup {
				return invalid(field+".id", fmt.Sprintf("duplicate id %q", p.ID))
			}
			ids[p.ID] = struct{}{}
		}
		if p.Page != "" {
			if _, dup := pages[p.Page]; dup {
				return invalid(field+".page", fmt.Sprintf("duplicate page %q", p.Page))
			}
			pages[p.Page] = struct{}{}
		}
		if !p.Options.IsZero() && p.Options.Kind != yaml.MappingNode {
			return invalid(field+".options", "must be a mapping")
		}
	}
	return nil
}

func invalid(field, msg string) error {
	return derrors.ConfigError(msg).WithContext("field", field).Build()
}
