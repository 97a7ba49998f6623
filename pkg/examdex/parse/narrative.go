package parse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Sentinel markers delimiting the answer block of a narrative document
const (
	AnswerStart = "<!-- ANSWER_START -->"
	AnswerEnd   = "<!-- ANSWER_END -->"
)

// narrativeTagKeys are the tag keys a narrative header may carry
var narrativeTagKeys = []string{
	"chapter", record.DimChapters, record.DimDifficulty,
	record.DimDomains, record.DimPaperType, record.DimKeywords,
}

// splitAnswer returns the prompt text before the start sentinel and the
// answer block between the sentinels.
func splitAnswer(body string) (prompt, answer string, err error) {
	start := strings.Index(body, AnswerStart)
	if start < 0 {
		return "", "", fmt.Errorf("%w: %s not found", internalerr.ErrMissingSentinel, AnswerStart)
	}
	rest := body[start+len(AnswerStart):]
	end := strings.Index(rest, AnswerEnd)
	if end < 0 {
		return "", "", fmt.Errorf("%w: %s not found", internalerr.ErrMissingSentinel, AnswerEnd)
	}
	return body[:start], rest[:end], nil
}

// promptParts is the question side of a narrative document
type promptParts struct {
	Content      string
	Requirements string
}

// splitPrompt drops the document title line and any title sections, keeps
// every other level-2 section, and lifts the requirements section out.
func splitPrompt(prompt string) promptParts {
	var (
		parts    promptParts
		out      []string
		title    string
		section  []string
		inHeader bool
		dropped  bool
	)

	flush := func() {
		if !inHeader {
			out = append(out, section...)
			section = nil
			return
		}
		body := strings.TrimSpace(strings.Join(section, "\n"))
		switch {
		case containsAny(title, BackgroundAliases):
			out = append(out, "## "+title, body, "")
		case containsAny(title, RequirementsAliases):
			parts.Requirements = body
			out = append(out, "## "+title, body, "")
		case containsAny(title, TitleAliases):
			// the document title is already in front-matter
		default:
			out = append(out, "## "+title, body, "")
		}
		section = nil
	}

	for _, line := range strings.Split(prompt, "\n") {
		trimmed := strings.TrimSpace(line)
		if !dropped && strings.HasPrefix(trimmed, "# ") {
			dropped = true
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			flush()
			inHeader = true
			title = strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			continue
		}
		section = append(section, line)
	}
	flush()

	parts.Content = strings.TrimSpace(strings.Join(out, "\n"))
	return parts
}

// ParseNarrative converts a case-analysis or essay-guidance document
func (p *Parser) ParseNarrative(doc Document) (record.Narrative, error) {
	header, body, err := SplitFrontMatter(doc.Text)
	if err != nil {
		return record.Narrative{}, err
	}

	promptText, answerText, err := splitAnswer(body)
	if err != nil {
		return record.Narrative{}, err
	}

	defaults := p.cfg.Defaults.For(doc.Kind)
	prompt := splitPrompt(promptText)

	n := record.Narrative{
		ID:            header.String("id"),
		Kind:          doc.Kind,
		Title:         header.String("title"),
		Topic:         header.String("topic"),
		Content:       p.render(doc.Path, prompt.Content),
		Requirements:  prompt.Requirements,
		Tags:          narrativeTags(header, defaults.Difficulty),
		EstimatedTime: header.Int("estimatedTime", defaults.EstimatedTime),
		WordLimit:     wordLimit(header.Map("wordLimit")),
		Images:        header.List("images"),
	}
	if n.ID == "" {
		n.ID = strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	}
	if n.Title == "" {
		n.Title = p.classifier.Title(prompt.Content)
	}

	n.Answer = p.parseAnswer(doc, answerText)

	if err := n.Validate(); err != nil {
		return record.Narrative{}, err
	}
	return n, nil
}

// parseAnswer decomposes the answer block. Case studies keep references;
// essay guidance keeps examples and common mistakes. Subsections a kind does
// not use stay in the free-text content.
func (p *Parser) parseAnswer(doc Document, block string) record.Answer {
	wanted := []sectionKind{sectionKeyPoints, sectionRubric, sectionReferences}
	if doc.Kind == record.KindEssayGuidance {
		wanted = []sectionKind{sectionKeyPoints, sectionRubric, sectionExamples, sectionMistakes}
	}

	scan := scanAnswer(strings.TrimSpace(block), wanted)

	answer := record.Answer{
		Content:   p.render(doc.Path, strings.TrimSpace(strings.Join(scan.Remaining, "\n"))),
		KeyPoints: listItems(scan.Sections[sectionKeyPoints]),
		Rubric:    ParseRubric(strings.Join(scan.Sections[sectionRubric], "\n")),
	}
	if answer.KeyPoints == nil {
		answer.KeyPoints = []string{}
	}
	if answer.Rubric == nil {
		answer.Rubric = record.Rubric{}
	}

	switch doc.Kind {
	case record.KindCaseAnalysis:
		answer.References = listItems(scan.Sections[sectionReferences])
	case record.KindEssayGuidance:
		answer.Examples = p.render(doc.Path, strings.TrimSpace(strings.Join(scan.Sections[sectionExamples], "\n")))
		answer.CommonMistakes = mistakeItems(scan.Sections[sectionMistakes])
	}
	return answer
}

func narrativeTags(h Header, defaultDifficulty string) record.NarrativeTags {
	tags := h.Map("tags")

	chapter := h.String("chapter")
	if chapter == "" {
		chapter = tags.String("chapter")
	}
	if chapter == "" {
		chapter = tags.String(record.DimChapters)
	}

	difficulty := h.String("difficulty")
	if difficulty == "" {
		difficulty = tags.String(record.DimDifficulty)
	}
	if difficulty == "" {
		difficulty = defaultDifficulty
	}

	return record.NarrativeTags{
		Chapter:    chapter,
		Difficulty: difficulty,
		Domains:    tags.List(record.DimDomains),
		PaperType:  tags.List(record.DimPaperType),
		Keywords:   tags.List(record.DimKeywords),
		Extra:      extraTags(tags, narrativeTagKeys),
	}
}

func wordLimit(h Header) *record.WordLimit {
	if !h.Has("min") && !h.Has("max") {
		return nil
	}
	return &record.WordLimit{
		Min: h.Int("min", 0),
		Max: h.Int("max", 0),
	}
}
