package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/site"
)

const cdn = "https://cdn.jsdelivr.net/npm/swagger-ui-dist@latest"

const embeddedDoc = "# API\n" +
	"\n" +
	"```{swagger-plugin} ../specs/pets.yaml\n" +
	":id: pets\n" +
	":classes: wide\n" +
	"docExpansion: none\n" +
	"```\n" +
	"\n" +
	"```{swagger-plugin} ../specs/pets.yaml\n" +
	"```\n"

func newSwaggerSite(t *testing.T, layout config.Layout) *config.Config {
	t.Helper()
	src := t.TempDir()
	writeFile(t, src, "index.md", "# Home\n")
	writeFile(t, src, "specs/pets.yaml", validSpec)

	cfg, err := config.Default(src)
	require.NoError(t, err)
	cfg.Site.Layout = layout
	return cfg
}

func options(t *testing.T, src string) yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &n))
	return *n.Content[0]
}

func runBuild(t *testing.T, cfg *config.Config, opts ...Option) (*site.BuildReport, error) {
	t.Helper()
	b := site.NewBuilder(cfg, site.WithLogger(quietLogger()), site.WithExtensions(New(opts...)))
	return b.Build(context.Background())
}

func readOut(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutputPath(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestExtension_EmbeddedViewers(t *testing.T) {
	cfg := newSwaggerSite(t, config.LayoutFlat)
	writeFile(t, cfg.SourcePath(), "guide/api.md", embeddedDoc)

	report, err := runBuild(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, site.OutcomeSuccess, report.Outcome)

	page := readOut(t, cfg, "guide/api.html")
	assert.Contains(t, page, `<div id="pets" class="swagger-plugin wide"></div>`)
	assert.Contains(t, page, `<div id="swagger-ui-container" class="swagger-plugin"></div>`)
	assert.Contains(t, page, `window.swaggerUIs["pets"] = SwaggerUIBundle({"docExpansion":"none","url":"../_static/specs/pets.yaml","dom_id":"#pets"});`)
	assert.Contains(t, page, `window.swaggerUIs["swagger-ui-container"] = SwaggerUIBundle({"url":"../_static/specs/pets.yaml","dom_id":"#swagger-ui-container"});`)
	assert.Contains(t, page, `<link href="`+cdn+`/swagger-ui.css" rel="stylesheet" type="text/css"/>`)
	assert.Contains(t, page, `<script src="`+cdn+`/swagger-ui-standalone-preset.js"></script>`)
	assert.Contains(t, page, `<script src="`+cdn+`/swagger-ui-bundle.js"></script>`)

	copied := readOut(t, cfg, "_static/specs/pets.yaml")
	assert.Equal(t, validSpec, copied)

	index := readOut(t, cfg, "index.html")
	assert.NotContains(t, index, "SwaggerUIBundle", "pages without viewers get no viewer assets")
}

func TestExtension_DirectoryLayout(t *testing.T) {
	cfg := newSwaggerSite(t, config.LayoutDirectory)
	writeFile(t, cfg.SourcePath(), "guide/api.md", embeddedDoc)
	writeFile(t, cfg.SourcePath(), "openapi.md", "```{swagger-plugin} specs/pets.yaml\n```\n")

	_, err := runBuild(t, cfg)
	require.NoError(t, err)

	assert.Contains(t, readOut(t, cfg, "guide/api/index.html"), `"url":"../../_static/specs/pets.yaml"`)
	assert.Contains(t, readOut(t, cfg, "openapi/index.html"), `"url":"../_static/specs/pets.yaml"`)
}

func TestExtension_AnonymousViewersGetDistinctIDs(t *testing.T) {
	cfg := newSwaggerSite(t, config.LayoutFlat)
	writeFile(t, cfg.SourcePath(), "many.md",
		"```{swagger-plugin} specs/pets.yaml\n```\n\n```{swagger-plugin} specs/pets.yaml\n```\n\n```{swagger-plugin} specs/pets.yaml\n```\n")

	_, err := runBuild(t, cfg)
	require.NoError(t, err)
	first := readOut(t, cfg, "many.html")

	_, err = runBuild(t, cfg)
	require.NoError(t, err)
	second := readOut(t, cfg, "many.html")

	assert.Equal(t, first, second, "generated ids are deterministic")
	matches := regexp.MustCompile(`<div id="([^"]+)"`).FindAllStringSubmatch(first, -1)
	require.Len(t, matches, 3)
	assert.Equal(t, DefaultContainerID, matches[0][1])
	assert.Regexp(t, `^swagger-ui-[0-9a-f]{8}-[0-9a-f]{4}-5[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, matches[1][1])
	assert.Regexp(t, `^swagger-ui-[0-9a-f]{8}-[0-9a-f]{4}-5[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, matches[2][1])
	assert.NotEqual(t, matches[1][1], matches[2][1])
}

func TestExtension_FullPage(t *testing.T) {
	cfg := newSwaggerSite(t, config.LayoutFlat)
	writeFile(t, cfg.SourcePath(), "reference.md", "```{swagger-plugin} specs/pets.yaml\n:full-page:\ndeepLinking: true\n```\n")
	writeFile(t, cfg.SourcePath(), "titled.md", "---\ntitle: Our API\n---\n```{swagger-plugin} specs/pets.yaml\n:full-page:\n```\n")

	_, err := runBuild(t, cfg)
	require.NoError(t, err)

	ref := readOut(t, cfg, "reference.html")
	assert.Contains(t, ref, "<!DOCTYPE html>")
	assert.Contains(t, ref, "<title>Pet Store</title>", "untitled documents use the specification title")
	assert.Contains(t, ref, `config = {"deepLinking":true,"url":"_static/specs/pets.yaml"}`)
	assert.NotContains(t, ref, "<nav>")

	assert.Contains(t, readOut(t, cfg, "titled.html"), "<title>Our API</title>")
}

func TestExtension_StandalonePages(t *testing.T) {
	cfg := newSwaggerSite(t, config.LayoutFlat)
	cfg.Swagger.Pages = []config.StandalonePage{
		{Name: "Service API", Page: "openapi", Options: options(t, "url: openapi.yaml\n")},
		{Name: "Nested", Page: "apis/nested", Options: options(t, "url: https://example.com/spec.yaml\n")},
		{Name: "Unused", ID: "unused"},
	}

	report, err := runBuild(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, report.GeneratedPages)

	out := readOut(t, cfg, "openapi.html")
	expected, err := NewRenderer().Standalone("Service API",
		ViewerAssets{PresentURI: cdn + "/swagger-ui-standalone-preset.js", BundleURI: cdn + "/swagger-ui-bundle.js", CSSURI: cdn + "/swagger-ui.css"},
		mustConfig(t, "url: openapi.yaml\n"))
	require.NoError(t, err)
	assert.Equal(t, expected, out)

	assert.Contains(t, readOut(t, cfg, "apis/nested.html"), `config = {"url":"https://example.com/spec.yaml"}`)
}

func mustConfig(t *testing.T, src string) ViewerConfig {
	t.Helper()
	c, err := ParseViewerConfig(src)
	require.NoError(t, err)
	return c
}

func TestExtension_StandalonePageCollidesWithDocument(t *testing.T) {
	cfg := newSwaggerSite(t, config.LayoutFlat)
	cfg.Swagger.Pages = []config.StandalonePage{{Name: "Home", Page: "index"}}

	_, err := runBuild(t, cfg)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryBuild))
}

func TestExtension_InlineSwagger(t *testing.T) {
	cfg := newSwaggerSite(t, config.LayoutFlat)
	cfg.Swagger.Pages = []config.StandalonePage{
		{Name: "API1", Page: "openapi", Options: options(t, "url: openapi.yaml\n")},
		{Name: "API2", Page: "api2", ID: "myid", Options: options(t, "url: openapi.yaml\n")},
	}
	writeFile(t, cfg.SourcePath(), "guide/api.md", "# API\n\n```{inline-swagger}\n:id: myid\n```\n")

	report, err := runBuild(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, report.GeneratedPages, "inlined entries are not generated again")

	page := readOut(t, cfg, "guide/api.html")
	assert.Contains(t, page, `<iframe class="swagger-inline" src="../_static/myid.html" title="API2"`)

	inline := readOut(t, cfg, "_static/myid.html")
	assert.Contains(t, inline, "window.ui = SwaggerUIBundle(config);")
	assert.Contains(t, inline, "<title>API2</title>")

	assert.FileExists(t, filepath.Join(cfg.OutputPath(), "openapi.html"))
	assert.NoFileExists(t, filepath.Join(cfg.OutputPath(), "api2.html"))
}

func TestExtension_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		pages    []config.StandalonePage
		sentinel error
		category derrors.ErrorCategory
		contains string
		line     int
	}{
		{
			name:     "missing file",
			doc:      "# T\n\n```{swagger-plugin} unknown\n```\n",
			sentinel: ErrSpecNotFound,
			category: derrors.CategoryNotFound,
			contains: "unknown",
			line:     3,
		},
		{
			name:     "missing argument",
			doc:      "```{swagger-plugin}\n```\n",
			sentinel: ErrMissingArgument,
			category: derrors.CategoryValidation,
			line:     1,
		},
		{
			name:     "inline without id",
			doc:      "```{inline-swagger}\n```\n",
			sentinel: ErrMissingArgument,
			category: derrors.CategoryValidation,
			line:     1,
		},
		{
			name:     "unknown inline id",
			doc:      "text\n\n```{inline-swagger}\n:id: nope\n```\n",
			category: derrors.CategoryConfig,
			contains: "nope",
			line:     3,
		},
		{
			name:     "full page with other viewers",
			doc:      "```{swagger-plugin} specs/pets.yaml\n```\n\n```{swagger-plugin} specs/pets.yaml\n:full-page:\n```\n",
			category: derrors.CategoryValidation,
			contains: "full-page",
			line:     4,
		},
		{
			name:     "duplicate id",
			doc:      "```{swagger-plugin} specs/pets.yaml\n:id: a\n```\n\n```{swagger-plugin} specs/pets.yaml\n:id: a\n```\n",
			category: derrors.CategoryValidation,
			contains: "duplicate",
			line:     5,
		},
		{
			name:     "options not a mapping",
			doc:      "```{swagger-plugin} specs/pets.yaml\n- a\n```\n",
			category: derrors.CategoryValidation,
			contains: "mapping",
			line:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newSwaggerSite(t, config.LayoutFlat)
			cfg.Swagger.Pages = tt.pages
			writeFile(t, cfg.SourcePath(), "broken.md", tt.doc)

			report, err := runBuild(t, cfg)
			require.Error(t, err)
			assert.Equal(t, site.OutcomeFailed, report.Outcome)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			assert.Equal(t, tt.category, derrors.GetCategory(err))
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
			ce, ok := derrors.AsClassified(err)
			require.True(t, ok)
			doc, _ := ce.Context().GetString("document")
			line, _ := ce.Context().GetInt("line")
			assert.Equal(t, "broken", doc)
			assert.Equal(t, tt.line, line)
		})
	}
}

func viewerAssetServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte("/* " + r.URL.Path + " */"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtension_VendorAssets(t *testing.T) {
	srv := viewerAssetServer(t, http.StatusOK)
	cfg := newSwaggerSite(t, config.LayoutFlat)
	cfg.Swagger.VendorAssets = true
	cfg.Swagger.PresentURI = srv.URL + "/preset.js"
	cfg.Swagger.BundleURI = srv.URL + "/bundle.js"
	cfg.Swagger.CSSURI = srv.URL + "/ui.css"
	cfg.Swagger.Pages = []config.StandalonePage{{Name: "Inline", ID: "inl", Options: options(t, "url: x.yaml\n")}}
	writeFile(t, cfg.SourcePath(), "guide/api.md", embeddedDoc+"\n```{inline-swagger}\n:id: inl\n```\n")

	report, err := runBuild(t, cfg, WithFetcher(testFetcher(nil)))
	require.NoError(t, err)
	assert.Equal(t, site.OutcomeSuccess, report.Outcome)

	page := readOut(t, cfg, "guide/api.html")
	assert.Contains(t, page, `<link href="../_static/swagger-ui.css"`)
	assert.Contains(t, page, `<script src="../_static/swagger-ui-standalone-preset.js"></script>`)
	assert.Contains(t, page, `<script src="../_static/swagger-ui-bundle.js"></script>`)
	assert.NotContains(t, page, srv.URL)

	inline := readOut(t, cfg, "_static/inl.html")
	assert.Contains(t, inline, `<link href="swagger-ui.css"`)

	assert.Equal(t, "/* /bundle.js */", readOut(t, cfg, "_static/"+BundleFile))
	assert.Equal(t, "/* /preset.js */", readOut(t, cfg, "_static/"+PresentFile))
	assert.Equal(t, "/* /ui.css */", readOut(t, cfg, "_static/"+CSSFile))
}

func TestExtension_VendorFailureIsAWarning(t *testing.T) {
	srv := viewerAssetServer(t, http.StatusNotFound)
	cfg := newSwaggerSite(t, config.LayoutFlat)
	cfg.Swagger.VendorAssets = true
	cfg.Swagger.PresentURI = srv.URL + "/preset.js"
	cfg.Swagger.BundleURI = srv.URL + "/bundle.js"
	cfg.Swagger.CSSURI = srv.URL + "/ui.css"

	report, err := runBuild(t, cfg, WithFetcher(testFetcher(nil)))
	require.NoError(t, err)
	assert.Equal(t, site.OutcomeWarning, report.Outcome)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, site.IssueNetwork, report.Issues[0].Code)
}

func TestExtension_ValidateSpecs(t *testing.T) {
	const invalid = "openapi: 3.0.3\ninfo:\n  title: Broken\npaths: {}\n"

	t.Run("warning", func(t *testing.T) {
		cfg := newSwaggerSite(t, config.LayoutFlat)
		cfg.Swagger.ValidateSpecs = true
		writeFile(t, cfg.SourcePath(), "specs/bad.yaml", invalid)
		writeFile(t, cfg.SourcePath(), "api.md", "```{swagger-plugin} specs/bad.yaml\n```\n\n```{swagger-plugin} specs/pets.yaml\n```\n")

		report, err := runBuild(t, cfg)
		require.NoError(t, err)
		assert.Equal(t, site.OutcomeWarning, report.Outcome)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0].Error(), "specs/bad.yaml")
	})

	t.Run("strict", func(t *testing.T) {
		cfg := newSwaggerSite(t, config.LayoutFlat)
		cfg.Swagger.ValidateSpecs = true
		cfg.Swagger.StrictValidation = true
		writeFile(t, cfg.SourcePath(), "specs/bad.yaml", invalid)
		writeFile(t, cfg.SourcePath(), "api.md", "```{swagger-plugin} specs/bad.yaml\n```\n")

		_, err := runBuild(t, cfg)
		require.Error(t, err)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
	})

	t.Run("swagger 2 skipped", func(t *testing.T) {
		cfg := newSwaggerSite(t, config.LayoutFlat)
		cfg.Swagger.ValidateSpecs = true
		cfg.Swagger.StrictValidation = true
		writeFile(t, cfg.SourcePath(), "specs/legacy.yaml", "swagger: \"2.0\"\ninfo:\n  title: Legacy\n")
		writeFile(t, cfg.SourcePath(), "api.md", "```{swagger-plugin} specs/legacy.yaml\n```\n")

		_, err := runBuild(t, cfg)
		require.NoError(t, err)
	})
}
