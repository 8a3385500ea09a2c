package site

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
)

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		body string
		doc  docpath.DocName
		want string
		expl bool
	}{
		{name: "front matter wins", meta: map[string]any{"title": " Pet Store "}, body: "<h1>Other</h1>", doc: "api", want: "Pet Store", expl: true},
		{name: "first h1", body: "<p>x</p><h1 id=\"a\">Hello <code>API</code></h1><h1>Second</h1>", doc: "api", want: "Hello API", expl: true},
		{name: "entities decoded", body: "<h1>Cats &amp; Dogs</h1>", doc: "api", want: "Cats & Dogs", expl: true},
		{name: "leaf fallback", body: "<h2>Not h1</h2>", doc: "guides/getting-started", want: "Getting Started"},
		{name: "non-string title ignored", meta: map[string]any{"title": 3}, doc: "user_guide", want: "User Guide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, explicit := pageTitle(tt.meta, tt.body, tt.doc)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.expl, explicit)
		})
	}
}
