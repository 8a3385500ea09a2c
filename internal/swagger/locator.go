package swagger

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/swaggerdoc/internal/docpath"
	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/fsutil"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
)

// ParentToken replaces ".." segments in asset destinations so copies never
// leave the static root.
const ParentToken = "dot-dot"

// LocatorConfig is the per-build input of a Locator.
type LocatorConfig struct {
	SourceDir string
	OutputDir string
	StaticDir string // directory name under OutputDir, e.g. "_static"
	Tree      docpath.Tree
}

// Asset is a resolved specification reference.
type Asset struct {
	Source      string // absolute path of the file on disk
	Destination string // slash path relative to the static root
	URL         string // relative URL from the referencing page
}

// Locator resolves specification references from documents to copies under
// the static root, and copies them.
type Locator struct {
	cfg    LocatorConfig
	logger *slog.Logger
	copied map[string]string // destination -> source
}

// NewLocator creates a Locator. StaticDir defaults to "_static".
func NewLocator(cfg LocatorConfig, logger *slog.Logger) *Locator {
	if cfg.StaticDir == "" {
		cfg.StaticDir = "_static"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{cfg: cfg, logger: logger, copied: make(map[string]string)}
}

// Destination resolves specRef against doc's directory and replaces every
// ".." segment of the result with ParentToken. A leading "/" makes specRef
// relative to the source root.
func (l *Locator) Destination(specRef string, doc docpath.DocName) (string, error) {
	rel, err := l.sourceRelative(specRef, doc)
	if err != nil {
		return "", err
	}
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		if s == ".." {
			segs[i] = ParentToken
		}
	}
	return strings.Join(segs, "/"), nil
}

// sourceRelative is specRef as a cleaned slash path relative to the source root.
func (l *Locator) sourceRelative(specRef string, doc docpath.DocName) (string, error) {
	ref := strings.TrimSpace(filepath.ToSlash(specRef))
	if ref == "" {
		return "", fmt.Errorf("empty specification reference: %w", ErrMissingArgument)
	}
	if strings.HasPrefix(ref, "/") {
		return path.Clean(strings.TrimLeft(ref, "/")), nil
	}
	return path.Join(doc.Dir(), ref), nil
}

// Resolve locates specRef from doc. line is the directive's line and only
// used for error reporting.
func (l *Locator) Resolve(specRef string, doc docpath.DocName, line int) (Asset, error) {
	rel, err := l.sourceRelative(specRef, doc)
	if err != nil {
		return Asset{}, missingArgument("swagger-plugin", "the relative path to the specification", doc, line)
	}
	source := filepath.Join(l.cfg.SourceDir, filepath.FromSlash(rel))
	info, err := os.Stat(source)
	if err != nil || info.IsDir() {
		return Asset{}, specNotFound(specRef, source, doc, line)
	}
	dest, err := l.Destination(specRef, doc)
	if err != nil {
		return Asset{}, err
	}
	return Asset{
		Source:      source,
		Destination: dest,
		URL:         l.RelativeURL(doc, dest),
	}, nil
}

// RelativeURL is the URL of dest (relative to the static root) as seen from
// the output page of doc. Each segment is path-escaped so characters such as
// '#' and '?' stay part of the file name.
func (l *Locator) RelativeURL(doc docpath.DocName, dest string) string {
	segs := strings.Split(l.cfg.StaticDir+"/"+dest, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return l.cfg.Tree.RelativeTo(doc, strings.Join(segs, "/"))
}

// StaticURL is the URL of a file directly in the static root as seen from doc.
func (l *Locator) StaticURL(doc docpath.DocName, name string) string {
	return l.RelativeURL(doc, name)
}

// StaticPath is the on-disk path of dest under the output static root.
func (l *Locator) StaticPath(dest string) string {
	return filepath.Join(l.cfg.OutputDir, l.cfg.StaticDir, filepath.FromSlash(dest))
}

// OutputPath is the output file for doc, relative to the output root.
func (l *Locator) OutputPath(doc docpath.DocName) string {
	return l.cfg.Tree.OutputPath(doc)
}

// Copy writes asset's source to its destination. Directories are created as
// needed and the file is replaced through a temp file in the same directory.
// When another source was already copied to the same destination in this
// build the later copy wins and a warning is logged.
func (l *Locator) Copy(asset Asset) error {
	if prev, ok := l.copied[asset.Destination]; ok && prev != asset.Source {
		l.logger.Warn("Specification destination collision, overwriting",
			logfields.Dest(asset.Destination),
			slog.String("previous", prev),
			logfields.Source(asset.Source))
	}
	src, err := os.Open(asset.Source)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "open specification").
			Fatal().WithContext("source", asset.Source).Build()
	}
	defer func() { _ = src.Close() }()

	if err := fsutil.WriteFileAtomic(l.StaticPath(asset.Destination), src); err != nil {
		return err
	}
	l.copied[asset.Destination] = asset.Source
	l.logger.Debug("Copied specification", logfields.Source(asset.Source), logfields.Dest(asset.Destination))
	return nil
}
