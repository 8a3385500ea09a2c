package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/fsutil"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
)

// stageRead parses front matter, expands directives and renders each source.
func stageRead(ctx context.Context, bs *buildState) error {
	for _, src := range bs.sources {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRead, err)
		}
		page, err := bs.builder.readPage(bs.reg, src)
		if err != nil {
			return newFatalStageError(StageRead, err)
		}
		bs.pages = append(bs.pages, page)
	}
	return nil
}

func (b *Builder) readPage(reg *Registry, src sourceFile) (*Page, error) {
	raw, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read document").
			Fatal().WithContext(logfields.KeyDocument, src.Doc.String()).Build()
	}
	fm, body, offset, err := splitFrontMatter(raw)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid front matter").
			Fatal().WithContext(logfields.KeyDocument, src.Doc.String()).Build()
	}
	meta, err := parseFrontMatter(fm)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid front matter").
			Fatal().WithContext(logfields.KeyDocument, src.Doc.String()).Build()
	}

	page := &Page{Doc: src.Doc, Source: src.Path, Meta: meta}
	html, err := renderMarkdown(b.md, reg, page, body, offset)
	if err != nil {
		return nil, err
	}
	page.Body = html
	page.Title, page.HasTitle = pageTitle(meta, html, src.Doc)
	return page, nil
}

// stageWritePages runs page-context hooks and writes every page.
func stageWritePages(ctx context.Context, bs *buildState) error {
	env := bs.env
	for _, page := range bs.pages {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageWritePages, err)
		}
		pc := &PageContext{Env: env, Page: page}
		for _, fn := range bs.reg.pageContext {
			if err := fn(pc); err != nil {
				return newFatalStageError(StageWritePages, err)
			}
		}

		out := pc.document
		if out == nil {
			home := env.Tree.RelativeTo(page.Doc, env.Tree.OutputPath(env.Tree.RootDoc))
			html, err := bs.builder.shell.render(pc, env.Config.Site.Title, home)
			if err != nil {
				return newFatalStageError(StageWritePages, derrors.WrapError(err, derrors.CategoryBuild, "render page").
					Fatal().WithContext(logfields.KeyDocument, page.Doc.String()).Build())
			}
			out = []byte(html)
		}
		if err := bs.writePage(page.Doc, out); err != nil {
			return newFatalStageError(StageWritePages, err)
		}
		bs.report.RenderedPages++
	}
	env.Recorder.IncPagesRendered(bs.report.RenderedPages)
	return nil
}

// stageCollectPages writes pages contributed by extensions. A generated page
// may not take the place of a markdown document.
func stageCollectPages(ctx context.Context, bs *buildState) error {
	for _, fn := range bs.reg.collectPages {
		pages, err := fn(ctx, bs.env)
		if err != nil {
			return newFatalStageError(StageCollectPages, err)
		}
		for _, gp := range pages {
			if _, taken := bs.written[gp.Doc]; taken {
				return newFatalStageError(StageCollectPages, derrors.BuildError(
					fmt.Sprintf("generated page %s collides with an existing document", gp.Doc)).
					WithContext(logfields.KeyPage, gp.Doc.String()).Build())
			}
			if err := bs.writePage(gp.Doc, gp.HTML); err != nil {
				return newFatalStageError(StageCollectPages, err)
			}
			bs.report.GeneratedPages++
			bs.env.Logger.Debug("Wrote generated page", logfields.Page(gp.Doc.String()))
		}
	}
	return nil
}

func (bs *buildState) writePage(doc docpath.DocName, html []byte) error {
	rel := bs.env.Tree.OutputPath(doc)
	if err := fsutil.WriteFileAtomic(filepath.Join(bs.env.OutputDir, filepath.FromSlash(rel)), bytes.NewReader(html)); err != nil {
		return err
	}
	bs.written[doc] = rel
	return nil
}
