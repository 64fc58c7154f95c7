// Package loader runs a complete load of a collision file: read, scan,
// validate and log the outcome under a unique load id.
package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/colkit/internal/logger"
	"github.com/Faultbox/colkit/pkg/col"
)

// Extension is the file extension of collision files.
const Extension = ".col"

// Result is the outcome of one load.
type Result struct {
	ID       uuid.UUID     `json:"id"`
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Archive  *col.Archive  `json:"archive"`
	Warnings int           `json:"warnings"`
	Errors   int           `json:"errors"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Loader loads collision files with a fixed set of decoder options.
type Loader struct {
	opts col.Options
	log  *zap.Logger
}

// New creates a loader. A nil logger uses the global one.
func New(opts col.Options, log *zap.Logger) *Loader {
	if log == nil {
		log = logger.Named("loader")
	}
	return &Loader{opts: opts, log: log}
}

// Load reads and decodes the file at path.
//
// It fails only when the file cannot be read, when no model decodes or when
// ctx is cancelled. In the last two cases the partial Result is returned
// together with the error.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return l.LoadBytes(ctx, path, data)
}

// LoadBytes decodes data that was read from path.
func (l *Loader) LoadBytes(ctx context.Context, path string, data []byte) (*Result, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create load id")
	}

	log := l.log.With(zap.Stringer("load_id", id), zap.String("file", filepath.Base(path)))
	opts := l.opts
	opts.Observer = NewObserverChain(opts.Observer, logger.NewDecodeObserver(log, ""))

	start := time.Now()
	archive, scanErr := col.NewDecoder(opts).Scan(ctx, data)

	res := &Result{
		ID:      id,
		Path:    path,
		Size:    int64(len(data)),
		Archive: archive,
		Elapsed: time.Since(start),
	}
	counts := archive.CountBySeverity()
	res.Warnings = counts[col.SeverityWarning]
	res.Errors = counts[col.SeverityError]

	if scanErr != nil {
		log.Error("load failed", zap.Error(scanErr), zap.Int("diagnostics", len(archive.Diagnostics)))
		return res, errors.Wrapf(scanErr, "failed to load %s", path)
	}

	log.Info("loaded",
		zap.Int("models", archive.Len()),
		zap.Int("warnings", res.Warnings),
		zap.Int("errors", res.Errors),
		zap.Int64("bytes", res.Size),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// Find returns the collision files below root, sorted, as paths relative
// to root.
func Find(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), Extension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", root)
	}
	sort.Strings(files)
	return files, nil
}
