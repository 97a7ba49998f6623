// Package examdex ties the build pipeline, artifact stores and query engine
// together.
package examdex

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/artifact/jsonfile"
	"github.com/cognicore/examdex/pkg/examdex/artifact/sqlite"
	"github.com/cognicore/examdex/pkg/examdex/build"
	"github.com/cognicore/examdex/pkg/examdex/config"
	"github.com/cognicore/examdex/pkg/examdex/markdown"
	"github.com/cognicore/examdex/pkg/examdex/query"
)

// Examdex is the main facade
type Examdex struct {
	store    artifact.Store
	pipeline *build.Pipeline
	service  *query.Service
	log      *zap.Logger
}

// Options configures an Examdex instance
type Options struct {
	Store    artifact.Store
	Config   *config.Config
	Renderer markdown.Renderer
	Logger   *zap.Logger
}

// New creates an Examdex instance over a store
func New(opts Options) *Examdex {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Examdex{
		store: opts.Store,
		pipeline: build.New(build.Options{
			Config:   opts.Config,
			Renderer: opts.Renderer,
			Logger:   log,
		}),
		service: query.NewService(opts.Store, log),
		log:     log,
	}
}

// Close cleanly shuts down the store
func (x *Examdex) Close() error {
	return x.store.Close()
}

// Build runs a full build over a content root and saves the artifact.
// Per-document failures are in the report; the error covers loading and
// saving only.
func (x *Examdex) Build(ctx context.Context, contentRoot string) (*build.Report, error) {
	bundle, report, err := x.pipeline.RunDir(ctx, contentRoot)
	if err != nil {
		return nil, err
	}
	if err := x.store.Save(ctx, bundle); err != nil {
		return report, fmt.Errorf("save artifact: %w", err)
	}
	return report, nil
}

// Query returns the query service. The artifact is read on first use and
// not reloaded afterwards.
func (x *Examdex) Query() *query.Service {
	return x.service
}

// OpenStore picks a store by file extension: .db, .sqlite and .sqlite3 open
// SQLite, anything else a JSON file.
func OpenStore(ctx context.Context, path string) (artifact.Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		st, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		return st, nil
	}
	return jsonfile.Open(path), nil
}
