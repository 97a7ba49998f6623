package index

import (
	"testing"

	"github.com/cognicore/examdex/pkg/examdex/record"
)

func TestNamer(t *testing.T) {
	n := NewNamer(map[string]string{"ch06": "系统架构设计基础"})

	tests := []struct {
		dim, value, want string
	}{
		{record.DimChapters, "ch06", "第06章-系统架构设计基础"},
		{record.DimChapters, "ch3", "第03章"},
		{record.DimChapters, "2023-2", "2023年下半年"},
		{record.DimYears, "2023-1", "2023年上半年"},
		{record.DimYears, "2023", "2023"},
		{record.DimDifficulty, "medium", "中等"},
		{record.DimQuestionType, "judgment", "判断题"},
		{record.DimQuestionType, "case-analysis", "案例分析题"},
		{record.DimKnowledge, "内存管理", "内存管理"},
	}

	for _, tt := range tests {
		if got := n.Name(tt.dim, tt.value); got != tt.want {
			t.Errorf("Name(%s, %s) = %q, want %q", tt.dim, tt.value, got, tt.want)
		}
	}
}

func TestDisplayFirstWriterWins(t *testing.T) {
	s := NewSet(record.KindQuiz, Options{})
	s.display[record.DimKnowledge]["x"] = "first"
	s.Add(record.Quiz{ID: "0001", Tags: record.QuizTags{Knowledge: []string{"x"}}})

	if got := s.Finalize(testInfo).DisplayMaps[record.DimKnowledge]["x"]; got != "first" {
		t.Errorf("display name = %q, want first", got)
	}
}
