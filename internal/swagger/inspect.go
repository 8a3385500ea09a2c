package swagger

import (
	"context"
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// SpecInfo is the small part of a specification that the viewer pages use.
type SpecInfo struct {
	Title   string
	Version string // "3.x" for OpenAPI, "2.0" for Swagger
}

type specHeader struct {
	OpenAPI string `yaml:"openapi"`
	Swagger string `yaml:"swagger"`
	Info    struct {
		Title string `yaml:"title"`
	} `yaml:"info"`
}

// ReadSpecInfo reads the title and version of a YAML or JSON specification.
func ReadSpecInfo(path string) (SpecInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SpecInfo{}, err
	}
	var h specHeader
	if err := yaml.Unmarshal(data, &h); err != nil {
		return SpecInfo{}, fmt.Errorf("parse %s: %w", path, err)
	}
	info := SpecInfo{Title: h.Info.Title, Version: h.OpenAPI}
	if info.Version == "" {
		info.Version = h.Swagger
	}
	return info, nil
}

// IsOpenAPI3 reports whether the version string belongs to OpenAPI 3.
func (s SpecInfo) IsOpenAPI3() bool {
	return len(s.Version) > 0 && s.Version[0] == '3'
}

// ValidateSpec loads an OpenAPI 3 document, following external refs, and
// validates it.
func ValidateSpec(ctx context.Context, path string) error {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
