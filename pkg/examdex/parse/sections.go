package parse

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)

// sectionKind names a logical answer-block subsection
type sectionKind int

const (
	sectionKeyPoints sectionKind = iota
	sectionRubric
	sectionReferences
	sectionMistakes
	sectionExamples
)

// Source documents phrase the same subsection several ways; each alias list
// is the accepted set of heading prefixes.
var (
	KeyPointsAliases  = []string{"关键要点", "关键分析点", "要点"}
	RubricAliases     = []string{"评分标准", "评分细则"}
	ReferencesAliases = []string{"参考资料", "参考文献"}
	MistakesAliases   = []string{"常见问题", "常见错误"}
	ExamplesAliases   = []string{"参考示例", "范文示例", "优秀范例"}

	BackgroundAliases   = []string{"案例背景", "写作背景", "背景"}
	RequirementsAliases = []string{"分析要求", "写作要求", "要求"}
	TitleAliases        = []string{"标题"}
)

func aliasesFor(k sectionKind) []string {
	switch k {
	case sectionKeyPoints:
		return KeyPointsAliases
	case sectionRubric:
		return RubricAliases
	case sectionReferences:
		return ReferencesAliases
	case sectionMistakes:
		return MistakesAliases
	case sectionExamples:
		return ExamplesAliases
	}
	return nil
}

// answerState is the position of the answer-block scanner
type answerState int

const (
	answerFree answerState = iota
	answerSubsection
)

// answerScan holds the subsections pulled out of an answer block and the
// text left over once they are removed.
type answerScan struct {
	Sections  map[sectionKind][]string
	Remaining []string
}

// scanAnswer extracts the wanted subsections. A subsection starts at a
// heading matching one of its aliases and ends at the next heading of the
// same or higher level. Headings inside fenced code are ignored.
func scanAnswer(block string, wanted []sectionKind) answerScan {
	s := answerScan{Sections: make(map[sectionKind][]string)}

	state := answerFree
	var (
		current sectionKind
		level   int
		inFence bool
	)

	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}

		if !inFence {
			if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
				lvl := len(m[1])
				if state == answerSubsection && lvl <= level {
					state = answerFree
				}
				if state == answerFree {
					if kind, ok := matchSection(m[2], wanted); ok {
						state, current, level = answerSubsection, kind, lvl
						if _, seen := s.Sections[kind]; !seen {
							s.Sections[kind] = []string{}
						}
						continue
					}
				}
			}
		}

		if state == answerSubsection {
			s.Sections[current] = append(s.Sections[current], line)
		} else {
			s.Remaining = append(s.Remaining, line)
		}
	}

	return s
}

func matchSection(title string, wanted []sectionKind) (sectionKind, bool) {
	title = strings.Trim(title, "*： :")
	for _, k := range wanted {
		if hasAnyPrefix(title, aliasesFor(k)) {
			return k, true
		}
	}
	return 0, false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var mistakePrefixPattern = regexp.MustCompile(`^\*\*问题\d+[:：]\**\s*`)

// listItems returns the text of "- " or "* " bullet lines
func listItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, bullet := range []string{"- ", "* "} {
			if strings.HasPrefix(trimmed, bullet) {
				if item := strings.TrimSpace(strings.TrimPrefix(trimmed, bullet)); item != "" {
					items = append(items, item)
				}
				break
			}
		}
	}
	return items
}

// mistakeItems accepts bullets and bold "**问题N：**" lead-ins
func mistakeItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			trimmed = strings.TrimPrefix(trimmed, "- ")
		case mistakePrefixPattern.MatchString(trimmed):
			trimmed = mistakePrefixPattern.ReplaceAllString(trimmed, "")
		default:
			continue
		}
		if trimmed = strings.TrimSpace(trimmed); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
