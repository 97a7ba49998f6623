package parse

import (
	"strconv"
	"strings"

	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Header rows are recognized by their first or second cell
var (
	rubricHeaderCriterion = []string{"评分项", "评分维度", "评分内容"}
	rubricHeaderPoints    = []string{"分值", "分数"}
)

// ParseRubric reads a grading table. Each row needs at least three cells:
// criterion, points, description. Malformed points parse as 0.
func ParseRubric(text string) record.Rubric {
	var rubric record.Rubric

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") || isRuleRow(line) {
			continue
		}

		cells := splitRow(line)
		if len(cells) < 3 || isRubricHeader(cells) {
			continue
		}

		rubric = append(rubric, record.RubricRow{
			Criterion:   cells[0],
			Points:      parsePoints(cells[1]),
			Description: cells[2],
		})
	}

	return rubric
}

func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// isRuleRow matches separator rows such as |---|:--:|
func isRuleRow(line string) bool {
	hasDash := false
	for _, r := range line {
		switch r {
		case '-':
			hasDash = true
		case '|', ':', ' ', '\t':
		default:
			return false
		}
	}
	return hasDash
}

func isRubricHeader(cells []string) bool {
	for _, kw := range rubricHeaderCriterion {
		if strings.Contains(cells[0], kw) {
			return true
		}
	}
	for _, kw := range rubricHeaderPoints {
		if strings.Contains(cells[1], kw) {
			return true
		}
	}
	return false
}

func parsePoints(cell string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cell)

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
