// Package build runs the full content build: parse documents in parallel,
// drop failures and duplicates, index each kind and assemble the artifact.
package build

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/examdex/internal/corpus"
	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/config"
	"github.com/cognicore/examdex/pkg/examdex/index"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/markdown"
	"github.com/cognicore/examdex/pkg/examdex/parse"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Options configures a Pipeline. Nil fields fall back to defaults.
type Options struct {
	Config   *config.Config
	Renderer markdown.Renderer
	Logger   *zap.Logger
	Now      func() time.Time
}

// Failure is one document that produced no record
type Failure struct {
	Path string
	Kind record.Kind
	Err  error
}

// Report summarizes a build
type Report struct {
	BuildID    string
	Documents  int
	Counts     map[record.Kind]int
	Failures   []Failure
	Duplicates []Failure
	Empty      []record.Kind // kinds that produced no records
}

// Pipeline builds artifacts from documents
type Pipeline struct {
	cfg    *config.Config
	parser *parse.Parser
	log    *zap.Logger
	now    func() time.Time
}

// New creates a pipeline
func New(opts Options) *Pipeline {
	p := &Pipeline{cfg: opts.Config, log: opts.Logger, now: opts.Now}
	if p.cfg == nil {
		p.cfg = config.Default()
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	p.parser = parse.New(parse.Options{
		Config:   p.cfg,
		Renderer: opts.Renderer,
		Logger:   p.log,
	})
	return p
}

// RunDir loads every document under a content root and builds it
func (p *Pipeline) RunDir(ctx context.Context, root string) (*artifact.Bundle, *Report, error) {
	docs, err := corpus.Load(root, p.cfg.Layout)
	if err != nil {
		return nil, nil, fmt.Errorf("load content from %s: %w", root, err)
	}
	p.log.Info("content loaded", zap.String("root", root), zap.Int("documents", len(docs)))
	return p.Run(ctx, docs)
}

type parsed struct {
	rec record.Record
	err error
}

// Run parses docs in parallel, then reduces the results sequentially in
// input order. Per-document failures are reported, never fatal.
func (p *Pipeline) Run(ctx context.Context, docs []parse.Document) (*artifact.Bundle, *Report, error) {
	results := make([]parsed, len(docs))

	limit := p.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := p.parser.Parse(doc)
			results[i] = parsed{rec: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report := &Report{
		Documents: len(docs),
		Counts:    make(map[record.Kind]int),
	}

	var (
		quizzes []record.Quiz
		cases   []record.Narrative
		essays  []record.Narrative
		seen    = make(map[record.Kind]map[string]string)
	)

	for i, res := range results {
		doc := docs[i]
		if res.err != nil {
			p.log.Warn("skipping document",
				zap.String("path", doc.Path),
				zap.String("kind", string(doc.Kind)),
				zap.Error(res.err))
			report.Failures = append(report.Failures, Failure{Path: doc.Path, Kind: doc.Kind, Err: res.err})
			continue
		}

		kind, id := res.rec.RecordKind(), res.rec.RecordID()
		if seen[kind] == nil {
			seen[kind] = make(map[string]string)
		}
		if first, dup := seen[kind][id]; dup {
			err := fmt.Errorf("%w: %s %s already defined in %s", internalerr.ErrDuplicate, kind, id, first)
			p.log.Warn("dropping duplicate record", zap.String("path", doc.Path), zap.Error(err))
			report.Duplicates = append(report.Duplicates, Failure{Path: doc.Path, Kind: kind, Err: err})
			continue
		}
		seen[kind][id] = doc.Path

		switch r := res.rec.(type) {
		case record.Quiz:
			quizzes = append(quizzes, r)
		case record.Narrative:
			if kind == record.KindCaseAnalysis {
				cases = append(cases, r)
			} else {
				essays = append(essays, r)
			}
		}
	}

	sortByID(quizzes)
	sortByID(cases)
	sortByID(essays)

	info := index.NewBuildInfo(p.now())
	report.BuildID = info.ID
	opts := index.Options{Chapters: p.cfg.Chapters, Logger: p.log}

	bundle := &artifact.Bundle{
		BuildID:       info.ID,
		BuiltAt:       info.At,
		Quizzes:       artifact.NewSection(quizzes, index.Build(record.KindQuiz, quizzes, info, opts)),
		CaseAnalyses:  artifact.NewSection(cases, index.Build(record.KindCaseAnalysis, cases, info, opts)),
		EssayGuidance: artifact.NewSection(essays, index.Build(record.KindEssayGuidance, essays, info, opts)),
	}

	report.Counts[record.KindQuiz] = len(quizzes)
	report.Counts[record.KindCaseAnalysis] = len(cases)
	report.Counts[record.KindEssayGuidance] = len(essays)
	for _, kind := range corpus.Kinds {
		if report.Counts[kind] == 0 {
			p.log.Warn("no valid records for kind", zap.String("kind", string(kind)))
			report.Empty = append(report.Empty, kind)
		}
	}

	p.log.Info("build complete",
		zap.String("build_id", info.ID),
		zap.Int("documents", report.Documents),
		zap.Int("quizzes", len(quizzes)),
		zap.Int("case_analyses", len(cases)),
		zap.Int("essay_guidance", len(essays)),
		zap.Int("failures", len(report.Failures)),
		zap.Int("duplicates", len(report.Duplicates)))

	return bundle, report, nil
}

func sortByID[R record.Record](records []R) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordID() < records[j].RecordID()
	})
}
