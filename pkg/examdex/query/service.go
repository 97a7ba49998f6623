package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Service lazily loads an artifact once and serves one engine per kind
type Service struct {
	src artifact.Source
	log *zap.Logger

	once    sync.Once
	err     error
	buildID string

	quizzes *Engine[record.Quiz]
	cases   *Engine[record.Narrative]
	essays  *Engine[record.Narrative]
}

// NewService creates a service over src. Nothing is read until first use.
func NewService(src artifact.Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{src: src, log: logger}
}

func (s *Service) load(ctx context.Context) error {
	s.once.Do(func() {
		b, err := s.src.Load(context.WithoutCancel(ctx))
		if err != nil {
			if !errors.Is(err, internalerr.ErrNoData) {
				err = fmt.Errorf("%w: %w", internalerr.ErrNoData, err)
			}
			s.log.Warn("artifact unavailable, serving empty results", zap.Error(err))
			s.err = err
			b = &artifact.Bundle{}
		}

		s.buildID = b.BuildID
		s.quizzes = NewEngine(record.KindQuiz, b.Quizzes)
		s.cases = NewEngine(record.KindCaseAnalysis, b.CaseAnalyses)
		s.essays = NewEngine(record.KindEssayGuidance, b.EssayGuidance)

		if err == nil {
			s.log.Info("artifact loaded",
				zap.String("build_id", b.BuildID),
				zap.Int("quizzes", s.quizzes.Len()),
				zap.Int("case_analyses", s.cases.Len()),
				zap.Int("essay_guidance", s.essays.Len()))
		}
	})
	return s.err
}

// Quizzes returns the quiz engine. On load failure the engine is empty and
// the error wraps ErrNoData.
func (s *Service) Quizzes(ctx context.Context) (*Engine[record.Quiz], error) {
	err := s.load(ctx)
	return s.quizzes, err
}

// CaseAnalyses returns the case-analysis engine
func (s *Service) CaseAnalyses(ctx context.Context) (*Engine[record.Narrative], error) {
	err := s.load(ctx)
	return s.cases, err
}

// EssayGuidance returns the essay-guidance engine
func (s *Service) EssayGuidance(ctx context.Context) (*Engine[record.Narrative], error) {
	err := s.load(ctx)
	return s.essays, err
}

// Narratives returns the engine for a narrative kind
func (s *Service) Narratives(ctx context.Context, k record.Kind) (*Engine[record.Narrative], error) {
	switch k {
	case record.KindCaseAnalysis:
		return s.CaseAnalyses(ctx)
	case record.KindEssayGuidance:
		return s.EssayGuidance(ctx)
	}
	return nil, fmt.Errorf("%w: %q is not a narrative kind", internalerr.ErrNotFound, k)
}

// BuildID returns the identifier of the loaded build
func (s *Service) BuildID(ctx context.Context) (string, error) {
	err := s.load(ctx)
	return s.buildID, err
}
