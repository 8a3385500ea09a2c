package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringHelpers(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		attr slog.Attr
	}{
		{"Document", KeyDocument, "subdir/page", Document("subdir/page")},
		{"Spec", KeySpec, "../openapi.yaml", Spec("../openapi.yaml")},
		{"Source", KeySource, "/src/openapi.yaml", Source("/src/openapi.yaml")},
		{"Dest", KeyDest, "_static/openapi.yaml", Dest("_static/openapi.yaml")},
		{"URL", KeyURL, "../_static/openapi.yaml", URL("../_static/openapi.yaml")},
		{"Page", KeyPage, "api", Page("api")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"ID", KeyID, "swagger-ui-container", ID("swagger-ui-container")},
		{"Stage", KeyStage, "discover", Stage("discover")},
		{"Extension", KeyExtension, "swagger", Extension("swagger")},
		{"Layout", KeyLayout, "flat", Layout("flat")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
		{"Addr", KeyAddr, ":8000", Addr(":8000")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"RequestID", KeyRequestID, "host/abc-000001", RequestID("host/abc-000001")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.key, c.attr.Key)
			assert.Equal(t, slog.KindString, c.attr.Value.Kind())
			assert.Equal(t, c.val, c.attr.Value.String())
		})
	}
}

func TestNumericHelpers(t *testing.T) {
	assert.Equal(t, int64(12), Line(12).Value.Int64())
	assert.Equal(t, int64(3), Count(3).Value.Int64())
	assert.Equal(t, int64(404), Status(404).Value.Int64())
	assert.InDelta(t, 1.5, DurationMS(1.5).Value.Float64(), 1e-9)
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	a := Error(errors.New("boom"))
	assert.Equal(t, KeyError, a.Key)
	assert.Equal(t, "boom", a.Value.String())
}
