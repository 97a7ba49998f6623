package parse

import "testing"

func TestParseRubric(t *testing.T) {
	text := `| 评分项 | 分值 | 说明 |
|---|:---:|---|
| 架构分析 | 10分 | 完整准确 |
| 风险识别 | abc | 无法解析 |
| 只有两列 | 5 |`

	rubric := ParseRubric(text)
	if len(rubric) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rubric), rubric)
	}
	if rubric[0].Criterion != "架构分析" || rubric[0].Points != 10 || rubric[0].Description != "完整准确" {
		t.Errorf("row 0 = %+v", rubric[0])
	}
	if rubric[1].Points != 0 {
		t.Errorf("malformed points should parse as 0, got %d", rubric[1].Points)
	}
	if rubric.Total() != 10 {
		t.Errorf("total = %d, want 10", rubric.Total())
	}
}

func TestParseRubricBareRow(t *testing.T) {
	rubric := ParseRubric("Criterion | 10分 | desc")
	if len(rubric) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rubric))
	}
	if rubric[0].Points != 10 {
		t.Errorf("points = %d, want 10", rubric[0].Points)
	}
}

func TestParseRubricEmpty(t *testing.T) {
	if rubric := ParseRubric("no table here"); len(rubric) != 0 {
		t.Errorf("expected no rows, got %+v", rubric)
	}
}
