package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Standalone(t *testing.T) {
	cfg, err := ParseViewerConfig("url: openapi.yaml\n")
	require.NoError(t, err)

	base := "https://cdn.jsdelivr.net/npm/swagger-ui-dist@latest"
	out, err := NewRenderer().Standalone("Service API", ViewerAssets{
		PresentURI: base + "/swagger-ui-standalone-preset.js",
		BundleURI:  base + "/swagger-ui-bundle.js",
		CSSURI:     base + "/swagger-ui.css",
	}, cfg)
	require.NoError(t, err)

	expected := `<!DOCTYPE html>
<html>
    <head>
        <title>Service API</title>
        <link href="` + base + `/swagger-ui.css" rel="stylesheet" type="text/css"/>
        <meta charset="utf-8"/>
    </head>
    <body>
        <div id="swagger-ui-container"></div>
        <script src="` + base + `/swagger-ui-standalone-preset.js"></script>
        <script src="` + base + `/swagger-ui-bundle.js"></script>
        <script>
            config = {"url":"openapi.yaml"}
            config["dom_id"] = "#swagger-ui-container"
            window.onload = function() {
                window.ui = SwaggerUIBundle(config);
            }
        </script>
    </body>
</html>`
	assert.Equal(t, expected, out)
}

func TestRenderer_StandaloneEscapesTitle(t *testing.T) {
	out, err := NewRenderer().Standalone(`<b>API</b>`, ViewerAssets{}, ViewerConfig{})
	require.NoError(t, err)
	assert.Contains(t, out, "<title>&lt;b&gt;API&lt;/b&gt;</title>")
	assert.Contains(t, out, "config = {}")
}

func TestRenderer_Container(t *testing.T) {
	r := NewRenderer()
	out, err := r.Container("petstore", []string{"wide", "dark"})
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="petstore" class="swagger-plugin wide dark"></div>`)

	out, err = r.Container(DefaultContainerID, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="swagger-ui-container" class="swagger-plugin"></div>`)
}

func TestRenderer_InitScript(t *testing.T) {
	one, err := ParseViewerConfig("url: a.yaml\n")
	require.NoError(t, err)
	two, err := ParseViewerConfig("url: b.yaml\ndocExpansion: none\n")
	require.NoError(t, err)

	out, err := NewRenderer().InitScript([]EmbeddedSpec{{ID: "first", Config: one}, {ID: "second", Config: two}})
	require.NoError(t, err)
	assert.Contains(t, out, `window.swaggerUIs["first"] = SwaggerUIBundle({"url":"a.yaml","dom_id":"#first"});`)
	assert.Contains(t, out, `window.swaggerUIs["second"] = SwaggerUIBundle({"url":"b.yaml","docExpansion":"none","dom_id":"#second"});`)
	assert.Contains(t, out, `window.addEventListener("load"`)
}

func TestRenderer_Inline(t *testing.T) {
	out, err := NewRenderer().Inline("../_static/myid.html", "API & Co")
	require.NoError(t, err)
	assert.Contains(t, out, `src="../_static/myid.html"`)
	assert.Contains(t, out, `title="API &amp; Co"`)
}
