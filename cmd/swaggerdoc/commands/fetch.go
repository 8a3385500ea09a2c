package commands

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
	"git.home.luguber.info/inful/swaggerdoc/internal/site"
	"git.home.luguber.info/inful/swaggerdoc/internal/swagger"
)

// FetchAssetsCmd downloads the viewer assets without building.
type FetchAssetsCmd struct {
	Dest string `short:"d" help:"Target directory (defaults to the static directory of the output)"`
}

func (f *FetchAssetsCmd) Run(ctx context.Context, root *CLI) error {
	cfg, logger, err := root.loadConfig()
	if err != nil {
		return err
	}
	dest := f.Dest
	if dest == "" {
		dest = site.NewBuilder(cfg, site.WithLogger(logger)).Env().StaticOutputDir()
	} else if dest, err = filepath.Abs(dest); err != nil {
		return err
	}
	if err := swagger.NewFetcher(logger, nil).VendorAssets(ctx, dest, swagger.Sources(cfg.Swagger)); err != nil {
		return err
	}
	logger.Info("Viewer assets downloaded", logfields.Path(dest))
	return nil
}
