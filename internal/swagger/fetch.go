package swagger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/fsutil"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/metrics"
)

const maxAssetBytes = 20 * 1024 * 1024

// Local file names of vendored viewer assets in the static root.
const (
	PresentFile = "swagger-ui-standalone-preset.js"
	BundleFile  = "swagger-ui-bundle.js"
	CSSFile     = "swagger-ui.css"
)

// NewAssetHTTPClient returns a client with a timeout that only follows
// same-host redirects.
func NewAssetHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return errors.New("redirect to different host blocked")
			}
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// Fetcher downloads viewer assets with retries.
type Fetcher struct {
	Client     *http.Client
	MaxRetries uint64
	NewBackOff func() backoff.BackOff
	Logger     *slog.Logger
	Recorder   metrics.Recorder
}

// NewFetcher returns a Fetcher with an exponential backoff and three retries.
func NewFetcher(logger *slog.Logger, recorder metrics.Recorder) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Fetcher{
		Client:     NewAssetHTTPClient(),
		MaxRetries: 3,
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = time.Minute
			return b
		},
		Logger:   logger,
		Recorder: recorder,
	}
}

// Fetch downloads rawURL. Client errors (4xx) are not retried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, derrors.NetworkError("unsupported asset URL").
			WithRetry(derrors.RetryNever).WithContext("url", rawURL).Build()
	}
	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		data, err := f.get(ctx, rawURL)
		if err != nil {
			var perm *backoff.PermanentError
			if !errors.As(err, &perm) {
				f.Logger.Debug("Asset download failed, retrying", logfields.URL(rawURL), slog.Int("attempt", attempt), logfields.Error(err))
			}
			return err
		}
		body = data
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(f.NewBackOff(), f.MaxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "download viewer asset").
			Retryable().WithContext("url", rawURL).WithContext("attempts", attempt).Build()
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, backoff.Permanent(fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxAssetBytes {
		return nil, backoff.Permanent(errors.New("response too large"))
	}
	return data, nil
}

// AssetSource pairs a remote URI with its local file name.
type AssetSource struct {
	URI  string
	File string
}

// VendorAssets downloads each source into staticDir. Every asset is
// attempted; the returned error joins all failures.
func (f *Fetcher) VendorAssets(ctx context.Context, staticDir string, sources []AssetSource) error {
	var errs []error
	for _, src := range sources {
		data, err := f.Fetch(ctx, src.URI)
		if err == nil {
			err = fsutil.WriteFileAtomic(filepath.Join(staticDir, src.File), bytes.NewReader(data))
		}
		f.Recorder.IncAssetDownload(err == nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.Logger.Info("Vendored viewer asset", logfields.URL(src.URI), logfields.Path(src.File))
	}
	return errors.Join(errs...)
}
