package parse

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// ExplanationMarker separates a quiz stem and options from its explanation
const ExplanationMarker = "## 解析"

var (
	optionPattern = regexp.MustCompile(`^([A-D])\.\s*(.+)$`)
	// Blank-fill prompts such as **第一个空：** carry no stem text
	blankPromptPattern = regexp.MustCompile(`^\*\*第[一二三四五六七八九十\d]+个?空：?\*\*$`)
)

// quizState is the position of the quiz line scanner
type quizState int

const (
	quizStem quizState = iota
	quizOptions
	quizExplanation
	quizDone
)

func (s quizState) String() string {
	switch s {
	case quizStem:
		return "stem"
	case quizOptions:
		return "options"
	case quizExplanation:
		return "explanation"
	case quizDone:
		return "done"
	}
	return fmt.Sprintf("quizState(%d)", int(s))
}

// quizScan is the raw structure of a quiz body before any rendering
type quizScan struct {
	Stem        []string
	Options     []record.Option
	Explanation []string
	HasMarker   bool
	Final       quizState
}

// scanQuiz walks the body line by line. Option lines before the marker
// become options; non-empty lines before the first option form the stem;
// the explanation runs from the marker to the next level-2 heading.
func scanQuiz(body string) quizScan {
	var s quizScan
	state := quizStem

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		switch state {
		case quizStem, quizOptions:
			if strings.HasPrefix(trimmed, ExplanationMarker) {
				s.HasMarker = true
				state = quizExplanation
				continue
			}
			if m := optionPattern.FindStringSubmatch(trimmed); m != nil {
				s.Options = append(s.Options, record.Option{
					Label: m[1],
					Text:  strings.TrimSpace(m[2]),
				})
				state = quizOptions
				continue
			}
			if state == quizStem && trimmed != "" && !blankPromptPattern.MatchString(trimmed) {
				s.Stem = append(s.Stem, strings.TrimRight(line, " \t"))
			}

		case quizExplanation:
			if strings.HasPrefix(trimmed, "## ") {
				state = quizDone
				continue
			}
			s.Explanation = append(s.Explanation, line)
		}

		if state == quizDone {
			break
		}
	}

	s.Final = state
	return s
}

// ParseQuiz converts one quiz document into a validated record
func (p *Parser) ParseQuiz(doc Document) (record.Quiz, error) {
	header, body, err := SplitFrontMatter(doc.Text)
	if err != nil {
		return record.Quiz{}, err
	}

	idText := header.String("id")
	if idText == "" {
		idText = strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	}
	num, err := record.ParseQuizNumber(idText)
	if err != nil {
		return record.Quiz{}, err
	}

	scan := scanQuiz(body)
	defaults := p.cfg.Defaults.For(record.KindQuiz)

	q := record.Quiz{
		ID:            record.FormatQuizID(num),
		Title:         header.String("title"),
		Type:          header.String("type"),
		Content:       strings.TrimSpace(strings.Join(scan.Stem, "\n")),
		Options:       scan.Options,
		Explanation:   p.render(doc.Path, strings.TrimSpace(strings.Join(scan.Explanation, "\n"))),
		Tags:          quizTags(header.Map("tags")),
		Points:        header.Int("points", defaults.Points),
		EstimatedTime: header.Int("estimatedTime", defaults.EstimatedTime),
		Source:        header.String("source"),
	}

	if q.CorrectAnswer, err = correctAnswer(header); err != nil {
		return record.Quiz{}, fmt.Errorf("quiz %s: %w", q.ID, err)
	}
	if q.Type == "" {
		q.Type = defaults.Type
	}
	if q.Tags.QuestionType == "" {
		q.Tags.QuestionType = q.Type
	}
	if q.Tags.Difficulty == "" {
		q.Tags.Difficulty = defaults.Difficulty
	}

	if p.cfg.InferTags && (len(q.Tags.Knowledge) == 0 || len(q.Tags.Chapters) == 0) {
		knowledge, chapter := p.classifier.Infer(q.Content)
		if len(q.Tags.Knowledge) == 0 {
			q.Tags.Knowledge = knowledge
		}
		if len(q.Tags.Chapters) == 0 && chapter != "" {
			q.Tags.Chapters = []string{chapter}
		}
	}

	if q.Title == "" {
		q.Title = p.classifier.Title(q.Content)
	}

	if !scan.HasMarker {
		p.log.Debug("quiz has no explanation section", zap.String("path", doc.Path))
	}

	if err := q.Validate(); err != nil {
		return record.Quiz{}, err
	}
	return q, nil
}

// correctAnswer accepts a single label, or a one-element list
func correctAnswer(h Header) (string, error) {
	answers := h.List("correctAnswer")
	switch len(answers) {
	case 0:
		return "", fmt.Errorf("%w: missing correctAnswer", internalerr.ErrMalformedRecord)
	case 1:
		return strings.ToUpper(answers[0]), nil
	}
	return "", fmt.Errorf("%w: %d correct answers, want exactly one", internalerr.ErrMalformedRecord, len(answers))
}

func quizTags(h Header) record.QuizTags {
	tags := record.QuizTags{
		Chapters:     h.List(record.DimChapters),
		Years:        h.List(record.DimYears),
		Difficulty:   h.String(record.DimDifficulty),
		QuestionType: h.String(record.DimQuestionType),
		Knowledge:    h.List(record.DimKnowledge),
		Subjects:     h.List(record.DimSubjects),
		Source:       h.List(record.DimSource),
	}
	tags.Extra = extraTags(h, record.Dimensions(record.KindQuiz))
	return tags
}

// extraTags collects tag keys outside the known set without validating them
func extraTags(h Header, known []string) map[string][]string {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}

	var extra map[string][]string
	for key := range h {
		if knownSet[key] {
			continue
		}
		if extra == nil {
			extra = make(map[string][]string)
		}
		extra[key] = h.List(key)
	}
	return extra
}
