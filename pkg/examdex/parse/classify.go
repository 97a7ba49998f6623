package parse

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/examdex/pkg/examdex/config"
)

var (
	titleMarkPattern = regexp.MustCompile(`^#+\s*`)
	numberingPattern = regexp.MustCompile(`^\d+[-.]?\s*`)
)

// Classifier matches body text against the keyword taxonomy
type Classifier struct {
	rules    []classifierRule
	titleLen int
}

type classifierRule struct {
	keywords  []string // lowercase
	knowledge []string
	chapter   string
}

// NewClassifier creates a classifier over an ordered keyword table
func NewClassifier(rules []config.TaxonomyRule, titleLen int) *Classifier {
	c := &Classifier{titleLen: titleLen}
	if c.titleLen < 1 {
		c.titleLen = 30
	}

	for _, r := range rules {
		normalized := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				normalized = append(normalized, kw)
			}
		}
		c.rules = append(c.rules, classifierRule{
			keywords:  normalized,
			knowledge: r.Knowledge,
			chapter:   r.Chapter,
		})
	}
	return c
}

// Title derives a short title from body text: the earliest keyword of the
// first matching rule, or a truncated prefix of the text.
func (c *Classifier) Title(body string) string {
	text := strings.Join(strings.Fields(body), " ")
	text = titleMarkPattern.ReplaceAllString(text, "")
	text = numberingPattern.ReplaceAllString(text, "")

	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		pos, kw := rule.earliest(lower)
		if pos < 0 {
			continue
		}
		return "关于" + sourceMatch(text, kw) + "的问题"
	}

	runes := []rune(text)
	if len(runes) > c.titleLen {
		return string(runes[:c.titleLen]) + "..."
	}
	return text
}

// sourceMatch returns the first span of text that lowercases to kw, keeping
// the source casing. Lowering can change byte widths, so spans are measured
// in runes.
func sourceMatch(text, kw string) string {
	n := utf8.RuneCountInString(kw)
	for i := range text {
		j, count := i, 0
		for j < len(text) && count < n {
			_, size := utf8.DecodeRuneInString(text[j:])
			j += size
			count++
		}
		if count < n {
			break
		}
		if strings.ToLower(text[i:j]) == kw {
			return text[i:j]
		}
	}
	return kw
}

// Infer returns the knowledge points of every matching rule (deduplicated,
// in table order) and the chapter of the first matching rule.
func (c *Classifier) Infer(body string) (knowledge []string, chapter string) {
	lower := strings.ToLower(body)
	seen := make(map[string]bool)

	for _, rule := range c.rules {
		if pos, _ := rule.earliest(lower); pos < 0 {
			continue
		}
		if chapter == "" {
			chapter = rule.chapter
		}
		for _, k := range rule.knowledge {
			if !seen[k] {
				seen[k] = true
				knowledge = append(knowledge, k)
			}
		}
	}
	return knowledge, chapter
}

func (r classifierRule) earliest(lower string) (int, string) {
	best, bestKw := -1, ""
	for _, kw := range r.keywords {
		if i := strings.Index(lower, kw); i >= 0 && (best < 0 || i < best) {
			best, bestKw = i, kw
		}
	}
	return best, bestKw
}
