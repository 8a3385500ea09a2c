package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("write_pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("write_pages", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncPagesRendered(3)
	pr.IncSpecsCopied(2)
	pr.IncAssetDownload(false)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 3, testutil.ToFloat64(pr.pagesRendered), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.specsCopied), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.assetDownloads.WithLabelValues("failed")), 0)
	assert.Same(t, reg, pr.Registry())
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.IncPagesRendered(1)
	})
	assert.Nil(t, pr.Registry())
}

func TestHTTPHandlerAndTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncSpecsCopied(1)

	srv := httptest.NewServer(HTTPHandler(pr.Registry()))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "swaggerdoc_specs_copied_total 1")

	path := filepath.Join(t.TempDir(), "swaggerdoc.prom")
	require.NoError(t, WriteTextfile(pr.Registry(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "swaggerdoc_specs_copied_total 1")
}
