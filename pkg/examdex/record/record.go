// Package record defines the typed content records produced by the parser and
// consumed by the index builder and query engine.
package record

import "strings"

// Kind tags a record variant
type Kind string

const (
	KindQuiz          Kind = "quiz"
	KindCaseAnalysis  Kind = "case-analysis"
	KindEssayGuidance Kind = "essay-guidance"
)

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	switch k {
	case KindQuiz, KindCaseAnalysis, KindEssayGuidance:
		return true
	}
	return false
}

// Tag dimension names as they appear in front-matter and in the artifact
const (
	DimChapters     = "chapters"
	DimYears        = "years"
	DimDifficulty   = "difficulty"
	DimQuestionType = "questionType"
	DimKnowledge    = "knowledge"
	DimSubjects     = "subjects"
	DimSource       = "source"
	DimDomains      = "domains"
	DimPaperType    = "paperType"
	DimKeywords     = "keywords"
)

var (
	quizDimensions = []string{
		DimChapters, DimYears, DimDifficulty, DimQuestionType,
		DimKnowledge, DimSubjects, DimSource,
	}
	narrativeDimensions = []string{
		DimChapters, DimDifficulty, DimDomains, DimPaperType, DimKeywords,
	}
)

// Dimensions returns the fixed set of indexable dimensions for a kind.
// The returned slice is a copy.
func Dimensions(k Kind) []string {
	var src []string
	switch k {
	case KindQuiz:
		src = quizDimensions
	case KindCaseAnalysis, KindEssayGuidance:
		src = narrativeDimensions
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Record is the common view every record variant exposes to the index
// builder and the query engine.
type Record interface {
	RecordID() string
	RecordKind() Kind
	// TagValues returns every tag dimension carried by the record, including
	// dimensions outside the known set for its kind.
	TagValues() map[string][]string
	// SearchFields returns the texts free-text search matches against.
	SearchFields() []string
}

// DifficultyOf returns the difficulty a record is bucketed under in
// aggregate statistics.
func DifficultyOf(r Record) string {
	vals := r.TagValues()[DimDifficulty]
	if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
		return "unknown"
	}
	return vals[0]
}

func single(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return []string{v}
}

func putTags(dst map[string][]string, dim string, vals []string) {
	if len(vals) == 0 {
		return
	}
	cp := make([]string, len(vals))
	copy(cp, vals)
	dst[dim] = cp
}

func mergeExtra(dst map[string][]string, extra map[string][]string) {
	for dim, vals := range extra {
		if _, taken := dst[dim]; taken {
			continue
		}
		putTags(dst, dim, vals)
	}
}
