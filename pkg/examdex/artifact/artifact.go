// Package artifact defines the serialized build output shared by the build
// pipeline and the query engine, and the stores that persist it.
package artifact

import (
	"context"
	"time"

	"github.com/cognicore/examdex/pkg/examdex/index"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Section is one record kind's slice of the artifact
type Section[R record.Record] struct {
	Records     []R               `json:"records"`
	Indices     index.Postings    `json:"indices"`
	DisplayMaps index.DisplayMaps `json:"displayMaps"`
	Metadata    index.Metadata    `json:"metadata"`
}

// NewSection pairs records with their finalized index
func NewSection[R record.Record](records []R, idx index.Index) Section[R] {
	if records == nil {
		records = []R{}
	}
	return Section[R]{
		Records:     records,
		Indices:     idx.Indices,
		DisplayMaps: idx.DisplayMaps,
		Metadata:    idx.Metadata,
	}
}

// Bundle is the complete output of one build
type Bundle struct {
	BuildID       string                    `json:"buildId"`
	BuiltAt       time.Time                 `json:"builtAt"`
	Quizzes       Section[record.Quiz]      `json:"quizzes"`
	CaseAnalyses  Section[record.Narrative] `json:"caseAnalyses"`
	EssayGuidance Section[record.Narrative] `json:"essayGuidance"`
}

// Narratives returns the narrative section of a kind, or nil
func (b *Bundle) Narratives(k record.Kind) *Section[record.Narrative] {
	switch k {
	case record.KindCaseAnalysis:
		return &b.CaseAnalyses
	case record.KindEssayGuidance:
		return &b.EssayGuidance
	}
	return nil
}

// Source loads a bundle
type Source interface {
	Load(ctx context.Context) (*Bundle, error)
}

// Store persists and loads bundles. Save replaces any previous bundle.
type Store interface {
	Source
	Save(ctx context.Context, b *Bundle) error
	Close() error
}
