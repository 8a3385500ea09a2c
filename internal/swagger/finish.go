package swagger

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/swaggerdoc/internal/config"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/fsutil"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/site"
)

// buildFinished copies referenced specifications, writes inlined viewer
// pages, validates specifications and vendors the viewer assets.
func (e *Extension) buildFinished(ctx context.Context, env *site.Env) error {
	copied := 0
	for _, a := range e.assets {
		if err := e.loc.Copy(a.Asset); err != nil {
			return err
		}
		copied++
	}
	env.Recorder.IncSpecsCopied(copied)
	if copied > 0 {
		env.Logger.Info("Copied specifications", logfields.Count(copied))
	}

	for _, p := range e.inline {
		if err := fsutil.WriteFileAtomic(filepath.Join(env.StaticOutputDir(), p.file), strings.NewReader(p.html)); err != nil {
			return err
		}
	}

	if e.cfg.ValidateSpecs {
		if err := e.validateSpecs(ctx, env); err != nil {
			return err
		}
	}

	if e.cfg.VendorAssets {
		if err := e.fetcher.VendorAssets(ctx, env.StaticOutputDir(), Sources(e.cfg)); err != nil {
			return derrors.WrapError(err, derrors.CategoryNetwork, "vendoring viewer assets failed").
				Warning().Retryable().Build()
		}
	}
	return nil
}

// Sources lists the configured viewer URIs with their vendored file names.
func Sources(cfg config.SwaggerConfig) []AssetSource {
	return []AssetSource{
		{URI: cfg.PresentURI, File: PresentFile},
		{URI: cfg.BundleURI, File: BundleFile},
		{URI: cfg.CSSURI, File: CSSFile},
	}
}

// validateSpecs checks every distinct OpenAPI 3 specification once. Failures
// are warnings unless strict validation is on.
func (e *Extension) validateSpecs(ctx context.Context, env *site.Env) error {
	seen := make(map[string]bool)
	for _, a := range e.assets {
		if seen[a.Source] {
			continue
		}
		seen[a.Source] = true

		info, err := ReadSpecInfo(a.Source)
		if err == nil && !info.IsOpenAPI3() {
			env.Logger.Debug("Skipping validation of non OpenAPI 3 specification",
				logfields.Spec(a.Source), slog.String("version", info.Version))
			continue
		}
		if err == nil {
			err = ValidateSpec(ctx, a.Source)
		}
		if err == nil {
			continue
		}
		b := derrors.WrapError(err, derrors.CategoryValidation, "invalid specification").
			WithContext(logfields.KeySpec, a.Destination).
			WithContext(logfields.KeyDocument, a.doc.String()).
			WithContext(logfields.KeyLine, a.line)
		if e.cfg.StrictValidation {
			return b.Fatal().Build()
		}
		env.Warn(b.Warning().Build())
	}
	return nil
}
