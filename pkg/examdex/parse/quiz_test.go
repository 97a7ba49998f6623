package parse

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/examdex/pkg/examdex/config"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/markdown"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

const quizDoc = `---
id: 7
correctAnswer: b
tags:
  chapters: [ch01]
  years: [2023-1]
  difficulty: basic
  knowledge: [内存管理]
  custom: [x]
---
**第一个空：**

在页式存储管理中，下列说法正确的是？

A. 选项一
B. 选项二
C. 选项三
D. 选项四

## 解析

答案是 **B**。

## 相关知识
不属于解析
`

func newTestParser() *Parser {
	return New(Options{Renderer: markdown.Plain{}})
}

func TestScanQuiz(t *testing.T) {
	_, body, err := SplitFrontMatter(quizDoc)
	if err != nil {
		t.Fatalf("SplitFrontMatter failed: %v", err)
	}

	scan := scanQuiz(body)
	if len(scan.Stem) != 1 || scan.Stem[0] != "在页式存储管理中，下列说法正确的是？" {
		t.Errorf("stem = %q", scan.Stem)
	}
	if len(scan.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(scan.Options))
	}
	if scan.Options[2].Label != "C" || scan.Options[2].Text != "选项三" {
		t.Errorf("option C = %+v", scan.Options[2])
	}
	if !scan.HasMarker {
		t.Error("explanation marker not detected")
	}
	if scan.Final != quizDone {
		t.Errorf("final state = %v, want done", scan.Final)
	}
	if strings.Contains(strings.Join(scan.Explanation, "\n"), "不属于解析") {
		t.Error("explanation should stop at the next level-2 heading")
	}
}

func TestScanQuizWithoutMarker(t *testing.T) {
	scan := scanQuiz("stem\nA. a\nB. b")
	if scan.HasMarker {
		t.Error("unexpected marker")
	}
	if scan.Final != quizOptions {
		t.Errorf("final state = %v, want options", scan.Final)
	}
	if len(scan.Explanation) != 0 {
		t.Errorf("unexpected explanation %q", scan.Explanation)
	}
}

func TestParseQuiz(t *testing.T) {
	p := newTestParser()

	q, err := p.ParseQuiz(Document{Path: "questions/0007.md", Kind: record.KindQuiz, Text: quizDoc})
	if err != nil {
		t.Fatalf("ParseQuiz failed: %v", err)
	}

	if q.ID != "0007" {
		t.Errorf("ID = %q, want 0007", q.ID)
	}
	if q.CorrectAnswer != "B" {
		t.Errorf("CorrectAnswer = %q, want B", q.CorrectAnswer)
	}
	if q.Type != "single-choice" || q.Tags.QuestionType != "single-choice" {
		t.Errorf("type defaults not applied: %q / %q", q.Type, q.Tags.QuestionType)
	}
	if q.Points != 1 || q.EstimatedTime != 60 {
		t.Errorf("points/time = %d/%d, want 1/60", q.Points, q.EstimatedTime)
	}
	if q.Explanation != "答案是 **B**。" {
		t.Errorf("Explanation = %q", q.Explanation)
	}
	if q.Title != "关于页式的问题" {
		t.Errorf("Title = %q", q.Title)
	}
	if got := q.Tags.Extra["custom"]; len(got) != 1 || got[0] != "x" {
		t.Errorf("unknown dimension not passed through: %v", q.Tags.Extra)
	}
	if q.Tags.Years[0] != "2023-1" {
		t.Errorf("years = %v", q.Tags.Years)
	}
}

func TestParseQuizIDFromFilename(t *testing.T) {
	p := newTestParser()
	text := strings.Replace(quizDoc, "id: 7\n", "", 1)

	q, err := p.ParseQuiz(Document{Path: "questions/42.md", Kind: record.KindQuiz, Text: text})
	if err != nil {
		t.Fatalf("ParseQuiz failed: %v", err)
	}
	if q.ID != "0042" {
		t.Errorf("ID = %q, want 0042", q.ID)
	}
}

func TestParseQuizPaddedIDs(t *testing.T) {
	p := newTestParser()

	cases := []struct {
		name   string
		header string
		path   string
		want   string
	}{
		{"padded with nine", "id: 0009\n", "questions/x.md", "0009"},
		{"padded octal digits", "id: 0010\n", "questions/x.md", "0010"},
		{"padded eight", "id: 0008\n", "questions/x.md", "0008"},
		{"quoted", "id: '0010'\n", "questions/x.md", "0010"},
		{"bare integer", "id: 10\n", "questions/x.md", "0010"},
		{"filename only", "", "questions/0010.md", "0010"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := strings.Replace(quizDoc, "id: 7\n", tc.header, 1)
			q, err := p.ParseQuiz(Document{Path: tc.path, Kind: record.KindQuiz, Text: text})
			if err != nil {
				t.Fatalf("ParseQuiz failed: %v", err)
			}
			if q.ID != tc.want {
				t.Errorf("ID = %q, want %q", q.ID, tc.want)
			}
		})
	}
}

func TestParseQuizRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"three options", strings.Replace(quizDoc, "D. 选项四\n", "", 1)},
		{"missing answer", strings.Replace(quizDoc, "correctAnswer: b\n", "", 1)},
		{"answer outside options", strings.Replace(quizDoc, "correctAnswer: b", "correctAnswer: E", 1)},
		{"non-numeric id", strings.Replace(quizDoc, "id: 7", "id: abc", 1)},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseQuiz(Document{Path: "q.md", Kind: record.KindQuiz, Text: tt.text})
			if !errors.Is(err, internalerr.ErrMalformedRecord) {
				t.Errorf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestParseQuizInfersTags(t *testing.T) {
	cfg := config.Default()
	cfg.InferTags = true
	p := New(Options{Config: cfg, Renderer: markdown.Plain{}})

	text := `---
id: 3
correctAnswer: A
---
TCP 属于哪一层协议？
A. 传输层
B. 网络层
C. 应用层
D. 链路层
`
	q, err := p.ParseQuiz(Document{Path: "3.md", Kind: record.KindQuiz, Text: text})
	if err != nil {
		t.Fatalf("ParseQuiz failed: %v", err)
	}
	if len(q.Tags.Chapters) != 1 || q.Tags.Chapters[0] != "ch03" {
		t.Errorf("chapters = %v, want [ch03]", q.Tags.Chapters)
	}
	if len(q.Tags.Knowledge) == 0 || q.Tags.Knowledge[0] != "计算机网络" {
		t.Errorf("knowledge = %v", q.Tags.Knowledge)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("boom") }

func TestParseQuizRenderFailureKeepsRaw(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := New(Options{Renderer: failingRenderer{}, Logger: zap.New(core)})

	q, err := p.ParseQuiz(Document{Path: "7.md", Kind: record.KindQuiz, Text: quizDoc})
	if err != nil {
		t.Fatalf("ParseQuiz failed: %v", err)
	}
	if q.Explanation != "答案是 **B**。" {
		t.Errorf("Explanation = %q, want raw markdown", q.Explanation)
	}
	if logs.FilterMessageSnippet("markdown conversion failed").Len() == 0 {
		t.Error("expected a conversion warning")
	}
}

func TestParseUnknownKind(t *testing.T) {
	p := newTestParser()
	if _, err := p.Parse(Document{Path: "x.md", Kind: "flashcard", Text: "x"}); !errors.Is(err, internalerr.ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
}
