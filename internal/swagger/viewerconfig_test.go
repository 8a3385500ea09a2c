package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestViewerConfig_WithURLKeepsOrder(t *testing.T) {
	cfg, err := ParseViewerConfig("docExpansion: none\nurl: old.yaml\ndeepLinking: true\nlayout: BaseLayout\n")
	require.NoError(t, err)

	merged := cfg.WithURL("../_static/openapi.yaml")
	assert.Equal(t, []string{"docExpansion", "url", "deepLinking", "layout"}, merged.Keys())
	js, err := merged.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"docExpansion":"none","url":"../_static/openapi.yaml","deepLinking":true,"layout":"BaseLayout"}`, js)

	old, _ := cfg.String("url")
	assert.Equal(t, "old.yaml", old, "WithURL must not modify the receiver")
}

func TestViewerConfig_WithURLAppends(t *testing.T) {
	cfg, err := ParseViewerConfig("supportedSubmitMethods: [get, post]\nfilter: true\n")
	require.NoError(t, err)

	js, err := cfg.WithURL("spec.yaml").JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"supportedSubmitMethods":["get","post"],"filter":true,"url":"spec.yaml"}`, js)
}

func TestViewerConfig_Empty(t *testing.T) {
	for _, src := range []string{"", "  \n", "~\n"} {
		cfg, err := ParseViewerConfig(src)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Len())
		js, err := cfg.JSON()
		require.NoError(t, err)
		assert.Equal(t, "{}", js)
	}
}

func TestViewerConfig_NestedAndTypes(t *testing.T) {
	cfg, err := ParseViewerConfig(`
z: 1
a:
  second: 2.5
  first: null
b: "</script>"
anchor: &x {k: v}
ref: *x
`)
	require.NoError(t, err)
	js, err := cfg.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":{"second":2.5,"first":null},"b":"\u003c/script\u003e","anchor":{"k":"v"},"ref":{"k":"v"}}`, js)
}

func TestViewerConfig_NotAMapping(t *testing.T) {
	_, err := ParseViewerConfig("- a\n- b\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence")

	_, err = ParseViewerConfig("key: [unclosed")
	require.Error(t, err)
}

func TestViewerConfig_With(t *testing.T) {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("url: a.yaml\n"), &node))
	cfg, err := ViewerConfigFromNode(&node)
	require.NoError(t, err)

	withDom, err := cfg.With("dom_id", "#petstore")
	require.NoError(t, err)
	js, err := withDom.JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"url":"a.yaml","dom_id":"#petstore"}`, js)
	assert.Equal(t, 1, cfg.Len())
}
