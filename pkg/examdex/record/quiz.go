package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/examdex/pkg/examdex/internalerr"
)

// OptionLabels is the fixed option alphabet of a quiz item
var OptionLabels = []string{"A", "B", "C", "D"}

// Option is one labeled answer choice
type Option struct {
	Label string `json:"key"`
	Text  string `json:"text"`
}

// QuizTags is the tag bag of a quiz item
type QuizTags struct {
	Chapters     []string `json:"chapters,omitempty"`
	Years        []string `json:"years,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	QuestionType string   `json:"questionType,omitempty"`
	Knowledge    []string `json:"knowledge,omitempty"`
	Subjects     []string `json:"subjects,omitempty"`
	Source       []string `json:"source,omitempty"`
	// Extra holds tag dimensions outside the known set, passed through as-is
	Extra map[string][]string `json:"extra,omitempty"`
}

// Quiz is a single-choice exam question
type Quiz struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	Content       string   `json:"content"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Tags          QuizTags `json:"tags"`
	Points        int      `json:"points"`
	EstimatedTime int      `json:"estimatedTime"`
	Source        string   `json:"source,omitempty"`
}

func (q Quiz) RecordID() string { return q.ID }

func (q Quiz) RecordKind() Kind { return KindQuiz }

// TagValues implements Record.
func (q Quiz) TagValues() map[string][]string {
	out := make(map[string][]string)
	putTags(out, DimChapters, q.Tags.Chapters)
	putTags(out, DimYears, q.Tags.Years)
	putTags(out, DimDifficulty, single(q.Tags.Difficulty))
	putTags(out, DimQuestionType, single(q.Tags.QuestionType))
	putTags(out, DimKnowledge, q.Tags.Knowledge)
	putTags(out, DimSubjects, q.Tags.Subjects)
	putTags(out, DimSource, q.Tags.Source)
	mergeExtra(out, q.Tags.Extra)
	return out
}

// SearchFields implements Record.
func (q Quiz) SearchFields() []string {
	fields := []string{q.Title, q.Content}
	fields = append(fields, q.Tags.Knowledge...)
	return fields
}

// Validate checks the option invariant: exactly four options labeled A-D and
// a correct answer drawn from them.
func (q *Quiz) Validate() error {
	if _, err := ParseQuizNumber(q.ID); err != nil {
		return err
	}

	if len(q.Options) != len(OptionLabels) {
		return fmt.Errorf("%w: quiz %s has %d options, want %d",
			internalerr.ErrMalformedRecord, q.ID, len(q.Options), len(OptionLabels))
	}

	seen := make(map[string]bool, len(q.Options))
	for i, opt := range q.Options {
		if opt.Label != OptionLabels[i] {
			return fmt.Errorf("%w: quiz %s option %d labeled %q, want %q",
				internalerr.ErrMalformedRecord, q.ID, i+1, opt.Label, OptionLabels[i])
		}
		seen[opt.Label] = true
	}

	if strings.TrimSpace(q.CorrectAnswer) == "" {
		return fmt.Errorf("%w: quiz %s has no correct answer", internalerr.ErrMalformedRecord, q.ID)
	}
	if !seen[q.CorrectAnswer] {
		return fmt.Errorf("%w: quiz %s correct answer %q not among options",
			internalerr.ErrMalformedRecord, q.ID, q.CorrectAnswer)
	}

	return nil
}

// ParseQuizNumber parses a quiz identifier as a non-negative integer.
func ParseQuizNumber(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: quiz id %q is not numeric", internalerr.ErrMalformedRecord, id)
	}
	return n, nil
}

// FormatQuizID renders a quiz number in its canonical zero-padded form.
func FormatQuizID(n int) string {
	return fmt.Sprintf("%04d", n)
}
