package index

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/cognicore/examdex/pkg/examdex/record"
)

var (
	chapterPattern = regexp.MustCompile(`^ch(\d+)$`)
	periodPattern  = regexp.MustCompile(`^(\d{4})-([12])$`)
)

var (
	difficultyNames = map[string]string{
		"basic":  "基础",
		"medium": "中等",
		"hard":   "困难",
	}
	questionTypeNames = map[string]string{
		"single-choice":   "单选题",
		"multiple-choice": "多选题",
		"judgment":        "判断题",
		"case-analysis":   "案例分析题",
	}
)

// Namer derives display names for dimension values
type Namer struct {
	chapters map[string]string
}

// NewNamer creates a namer with optional chapter titles keyed by code
func NewNamer(chapters map[string]string) Namer {
	return Namer{chapters: chapters}
}

// Name returns the display name of a value, or the value itself
func (n Namer) Name(dim, value string) string {
	switch dim {
	case record.DimChapters:
		if m := chapterPattern.FindStringSubmatch(value); m != nil {
			num, _ := strconv.Atoi(m[1])
			name := fmt.Sprintf("第%02d章", num)
			if title := n.chapters[value]; title != "" {
				name += "-" + title
			}
			return name
		}
		if p, ok := period(value); ok {
			return p
		}
	case record.DimYears:
		if p, ok := period(value); ok {
			return p
		}
	case record.DimDifficulty:
		if name, ok := difficultyNames[value]; ok {
			return name
		}
	case record.DimQuestionType:
		if name, ok := questionTypeNames[value]; ok {
			return name
		}
	}
	return value
}

// period renders YYYY-1 and YYYY-2 as exam sittings
func period(value string) (string, bool) {
	m := periodPattern.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	half := "上半年"
	if m[2] == "2" {
		half = "下半年"
	}
	return m[1] + "年" + half, true
}
