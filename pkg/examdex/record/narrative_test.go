package record

import "testing"

func TestRubricTotal(t *testing.T) {
	r := Rubric{
		{Criterion: "架构识别", Points: 10},
		{Criterion: "方案设计", Points: 15},
		{Criterion: "表达", Points: 0},
	}
	if r.Total() != 25 {
		t.Errorf("Expected total 25, got %d", r.Total())
	}
	if got := r.Summary(); got != "总分：25分，共3项评分标准" {
		t.Errorf("Unexpected summary %q", got)
	}
	if (Rubric{}).Summary() != "" {
		t.Error("Empty rubric should have empty summary")
	}
}

func TestNarrativeTagValues(t *testing.T) {
	n := Narrative{
		ID:   "case001",
		Kind: KindCaseAnalysis,
		Tags: NarrativeTags{
			Chapter:    "电商系统架构",
			Difficulty: "hard",
			Domains:    []string{"微服务", "缓存"},
		},
	}

	tags := n.TagValues()
	if got := tags[DimChapters]; len(got) != 1 || got[0] != "电商系统架构" {
		t.Errorf("Chapter should index as one-element list, got %v", got)
	}
	if len(tags[DimDomains]) != 2 {
		t.Errorf("Expected 2 domains, got %v", tags[DimDomains])
	}
	if _, ok := tags[DimPaperType]; ok {
		t.Error("Empty paper type should not be present")
	}
}

func TestNarrativeValidate(t *testing.T) {
	n := Narrative{ID: "essay001", Kind: KindEssayGuidance}
	if err := n.Validate(); err != nil {
		t.Errorf("Valid narrative should pass, got %v", err)
	}

	n.Kind = KindQuiz
	if err := n.Validate(); err == nil {
		t.Error("Quiz kind should not validate as narrative")
	}

	n = Narrative{Kind: KindEssayGuidance}
	if err := n.Validate(); err == nil {
		t.Error("Missing id should not validate")
	}
}

func TestDimensions(t *testing.T) {
	if len(Dimensions(KindQuiz)) != 7 {
		t.Errorf("Expected 7 quiz dimensions, got %v", Dimensions(KindQuiz))
	}
	dims := Dimensions(KindEssayGuidance)
	dims[0] = "mutated"
	if Dimensions(KindEssayGuidance)[0] != DimChapters {
		t.Error("Dimensions should return a copy")
	}
}
