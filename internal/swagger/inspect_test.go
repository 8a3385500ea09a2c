package swagger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSpec = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
`

func TestReadSpecInfo(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    SpecInfo
		v3      bool
	}{
		{"openapi 3", validSpec, SpecInfo{Title: "Pet Store", Version: "3.0.3"}, true},
		{"swagger 2", "swagger: \"2.0\"\ninfo:\n  title: Legacy\n  version: \"1\"\n", SpecInfo{Title: "Legacy", Version: "2.0"}, false},
		{"json", `{"openapi": "3.1.0", "info": {"title": "JSON API"}}`, SpecInfo{Title: "JSON API", Version: "3.1.0"}, true},
		{"no header", "foo: bar\n", SpecInfo{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.name+".yaml", tt.content)
			info, err := ReadSpecInfo(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info)
			assert.Equal(t, tt.v3, info.IsOpenAPI3())
		})
	}

	_, err := ReadSpecInfo(writeFile(t, dir, "broken.yaml", "info: [unclosed"))
	require.Error(t, err)
}

func TestValidateSpec(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ValidateSpec(context.Background(), writeFile(t, dir, "valid.yaml", validSpec)))

	err := ValidateSpec(context.Background(), writeFile(t, dir, "invalid.yaml", "openapi: 3.0.3\ninfo:\n  title: Broken\npaths: {}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate")
}
