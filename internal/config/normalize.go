package config

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/swaggerdoc/internal/foundation/normalization"
)

// NormalizationResult captures coercions made before defaults are applied.
type NormalizationResult struct {
	Warnings []string
}

// NormalizeConfig canonicalizes enum fields and document names in place.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeEnum(layoutNormalizer, "site.layout", &c.Site.Layout, res)
	normalizeEnum(logLevelNormalizer, "logging.level", &c.Logging.Level, res)
	normalizeEnum(logFormatNormalizer, "logging.format", &c.Logging.Format, res)

	c.Site.HTMLStaticPath = normalizeStringSlice("site.html_static_path", c.Site.HTMLStaticPath, res)
	if c.Site.RootDoc != "" {
		c.Site.RootDoc = normalizeDocName("site.root_doc", c.Site.RootDoc, res)
	}
	for i := range c.Swagger.Pages {
		p := &c.Swagger.Pages[i]
		if p.Page != "" {
			p.Page = normalizeDocName(fmt.Sprintf("swagger.pages[%d].page", i), p.Page, res)
		}
		p.ID = strings.TrimSpace(p.ID)
	}
	return res, nil
}

// normalizeEnum leaves empty values for the defaults pass.
func normalizeEnum[T ~string](n *normalization.Normalizer[T], field string, v *T, res *NormalizationResult) {
	if strings.TrimSpace(string(*v)) == "" {
		*v = ""
		return
	}
	r := n.NormalizeWithWarning(field, string(*v))
	if r.Changed {
		res.Warnings = append(res.Warnings, r.Warning)
	}
	*v = r.Value
}

// normalizeDocName strips a markdown extension and leading or trailing slashes.
func normalizeDocName(field, raw string, res *NormalizationResult) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimSuffix(name, ".md")
	name = strings.Trim(path.Clean("/"+name), "/")
	if name != raw {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s from %q to %q", field, raw, name))
	}
	return name
}

// normalizeStringSlice trims and dedupes entries, preserving order.
func normalizeStringSlice(label string, in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	changed := false
	for _, v := range in {
		t := strings.TrimSpace(v)
		if t == "" {
			changed = true
			continue
		}
		if _, ok := seen[t]; ok {
			changed = true
			continue
		}
		if t != v {
			changed = true
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if changed {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s list (%d -> %d entries)", label, len(in), len(out)))
	}
	return out
}
