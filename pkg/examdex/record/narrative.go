package record

import (
	"fmt"
	"strings"

	"github.com/cognicore/examdex/pkg/examdex/internalerr"
)

// RubricRow is one grading criterion
type RubricRow struct {
	Criterion   string `json:"criteria"`
	Points      int    `json:"points"`
	Description string `json:"description,omitempty"`
}

// Rubric is an ordered list of grading criteria
type Rubric []RubricRow

// Total sums the row points. Display only.
func (r Rubric) Total() int {
	total := 0
	for _, row := range r {
		total += row.Points
	}
	return total
}

// Summary renders the rubric total the way the answer views show it.
func (r Rubric) Summary() string {
	if len(r) == 0 {
		return ""
	}
	return fmt.Sprintf("总分：%d分，共%d项评分标准", r.Total(), len(r))
}

// WordLimit bounds an essay's length
type WordLimit struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Answer is the structured answer block of a narrative item
type Answer struct {
	Content        string   `json:"content"`
	KeyPoints      []string `json:"keyPoints"`
	Rubric         Rubric   `json:"gradingRubric"`
	References     []string `json:"references,omitempty"`
	Examples       string   `json:"examples,omitempty"`
	CommonMistakes []string `json:"commonMistakes,omitempty"`
}

// NarrativeTags is the tag bag of a case study or essay prompt
type NarrativeTags struct {
	Chapter    string              `json:"chapter"`
	Difficulty string              `json:"difficulty"`
	Domains    []string            `json:"domains,omitempty"`
	PaperType  []string            `json:"paperType,omitempty"`
	Keywords   []string            `json:"keywords,omitempty"`
	Extra      map[string][]string `json:"extra,omitempty"`
}

// Narrative is a case-analysis or essay-guidance item
type Narrative struct {
	ID            string        `json:"id"`
	Kind          Kind          `json:"type"`
	Title         string        `json:"title"`
	Topic         string        `json:"topic,omitempty"`
	Content       string        `json:"content"`
	Requirements  string        `json:"requirements,omitempty"`
	Tags          NarrativeTags `json:"tags"`
	EstimatedTime int           `json:"estimatedTime"`
	WordLimit     *WordLimit    `json:"wordLimit,omitempty"`
	Images        []string      `json:"images,omitempty"`
	Answer        Answer        `json:"answer"`
}

func (n Narrative) RecordID() string { return n.ID }

func (n Narrative) RecordKind() Kind { return n.Kind }

// TagValues implements Record.
func (n Narrative) TagValues() map[string][]string {
	out := make(map[string][]string)
	putTags(out, DimChapters, single(n.Tags.Chapter))
	putTags(out, DimDifficulty, single(n.Tags.Difficulty))
	putTags(out, DimDomains, n.Tags.Domains)
	putTags(out, DimPaperType, n.Tags.PaperType)
	putTags(out, DimKeywords, n.Tags.Keywords)
	mergeExtra(out, n.Tags.Extra)
	return out
}

// SearchFields implements Record.
func (n Narrative) SearchFields() []string {
	fields := []string{n.Title, n.Topic, n.Content}
	fields = append(fields, n.Tags.Keywords...)
	fields = append(fields, n.Tags.Domains...)
	fields = append(fields, n.Tags.PaperType...)
	return fields
}

// Validate checks the fields every narrative item needs.
func (n *Narrative) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return fmt.Errorf("%w: narrative id is required", internalerr.ErrMalformedRecord)
	}
	if n.Kind != KindCaseAnalysis && n.Kind != KindEssayGuidance {
		return fmt.Errorf("%w: narrative %s has kind %q", internalerr.ErrMalformedRecord, n.ID, n.Kind)
	}
	return nil
}
