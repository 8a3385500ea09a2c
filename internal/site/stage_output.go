package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/fsutil"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
)

// stagePrepareOutput creates the output tree, optionally wiping it first,
// and copies html_static_path directories into the static root.
func stagePrepareOutput(_ context.Context, bs *buildState) error {
	env := bs.env
	if env.Config.Site.Clean {
		if err := os.RemoveAll(env.OutputDir); err != nil {
			return newFatalStageError(StagePrepareOutput, derrors.WrapError(err, derrors.CategoryFileSystem, "clean output directory").
				Fatal().WithContext(logfields.KeyPath, env.OutputDir).Build())
		}
	}
	if err := os.MkdirAll(env.StaticOutputDir(), 0o755); err != nil {
		return newFatalStageError(StagePrepareOutput, derrors.WrapError(err, derrors.CategoryFileSystem, "create output directory").
			Fatal().WithContext(logfields.KeyPath, env.StaticOutputDir()).Build())
	}

	for _, dir := range env.Config.StaticPaths() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			env.Warn(derrors.NotFoundError(fmt.Sprintf("html_static_path entry %s does not exist", dir)).
				Warning().WithContext(logfields.KeyPath, dir).Build())
			continue
		}
		n, err := fsutil.CopyDir(dir, env.StaticOutputDir())
		if err != nil {
			return newFatalStageError(StagePrepareOutput, err)
		}
		env.Logger.Debug("Copied static files", logfields.Path(dir), logfields.Count(n))
	}
	return nil
}

// stageDiscover collects markdown sources. Directories starting with "_" or
// "." and the output directory are skipped.
func stageDiscover(ctx context.Context, bs *buildState) error {
	env := bs.env
	err := filepath.WalkDir(env.SourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if p == env.SourceDir {
				return nil
			}
			name := d.Name()
			if name[0] == '_' || name[0] == '.' || p == env.OutputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".md" || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(env.SourceDir, p)
		if err != nil {
			return err
		}
		bs.sources = append(bs.sources, sourceFile{Doc: docpath.FromSourcePath(rel), Path: p})
		return nil
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newCanceledStageError(StageDiscover, err)
	}
	if err != nil {
		return newFatalStageError(StageDiscover, derrors.WrapError(err, derrors.CategoryFileSystem, "discover documents").
			Fatal().WithContext(logfields.KeyPath, env.SourceDir).Build())
	}

	bs.report.Documents = len(bs.sources)
	if len(bs.sources) == 0 {
		return newWarnStageError(StageDiscover, derrors.NotFoundError("no markdown documents found").
			Warning().WithContext(logfields.KeyPath, env.SourceDir).Build())
	}
	root := env.Tree.RootDoc
	for _, s := range bs.sources {
		if s.Doc == root {
			return nil
		}
	}
	env.Warn(derrors.NotFoundError(fmt.Sprintf("root document %q not found", root)).Warning().Build())
	return nil
}
