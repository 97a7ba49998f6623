package examdex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/examdex/pkg/examdex/artifact/jsonfile"
	"github.com/cognicore/examdex/pkg/examdex/artifact/memstore"
	"github.com/cognicore/examdex/pkg/examdex/artifact/sqlite"
	"github.com/cognicore/examdex/pkg/examdex/config"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/query"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

const quiz = `---
id: 12
correctAnswer: C
tags:
  chapters: [ch03]
  years: [2024-2]
  difficulty: medium
  knowledge: [网络协议]
---
TCP 协议工作在哪一层？

A. 物理层
B. 数据链路层
C. 传输层
D. 应用层

## 解析

TCP 是**传输层**协议。
`

const essay = `---
id: essay-01
title: 论软件架构风格
tags:
  chapter: ch06
  paperType: [架构设计]
  keywords: [架构风格]
---
## 写作要求
论述架构风格的选择。

<!-- ANSWER_START -->
围绕项目展开。

## 评分标准
| 评分项 | 分值 | 说明 |
|---|---|---|
| 切题 | 15 | 紧扣主题 |
| 论证 | 30 | 结合实践 |
<!-- ANSWER_END -->
`

func writeContent(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	layout := config.Default().Layout

	files := []struct{ dir, name, content string }{
		{layout.Quiz, "0012.md", quiz},
		{layout.EssayGuidance, "essay-01.md", essay},
	}
	for _, f := range files {
		path := filepath.Join(root, f.dir, f.name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestBuildAndQuery(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	x := New(Options{Store: st})
	defer x.Close()

	report, err := x.Build(ctx, writeContent(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if st.Saves() != 1 {
		t.Errorf("Saves = %d, want one save per build", st.Saves())
	}
	if report.Counts[record.KindQuiz] != 1 || report.Counts[record.KindEssayGuidance] != 1 {
		t.Errorf("Counts = %v", report.Counts)
	}

	quizzes, err := x.Query().Quizzes(ctx)
	if err != nil {
		t.Fatalf("Quizzes: %v", err)
	}
	got := quizzes.ByFilters(
		query.Filter{Dimension: record.DimChapters, Values: []string{"ch03"}},
		query.Filter{Dimension: record.DimYears, Values: []string{"2024-2"}},
	)
	if len(got) != 1 || got[0].ID != "0012" {
		t.Fatalf("ByFilters = %+v", got)
	}
	if got[0].Explanation == "" || got[0].Explanation == "TCP 是**传输层**协议。" {
		t.Errorf("explanation should be rendered HTML, got %q", got[0].Explanation)
	}
	if hits := quizzes.Search("哪一层"); len(hits) != 1 {
		t.Errorf("Search hits = %d, want 1", len(hits))
	}

	essays, err := x.Query().EssayGuidance(ctx)
	if err != nil {
		t.Fatalf("EssayGuidance: %v", err)
	}
	e, err := essays.ByID("essay-01")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if e.Answer.Rubric.Total() != 45 {
		t.Errorf("rubric total = %d, want 45", e.Answer.Rubric.Total())
	}
	if s := essays.Summaries(record.DimPaperType); len(s) != 1 || s[0].Count != 1 {
		t.Errorf("paperType summaries = %+v", s)
	}
}

func TestQueryBeforeBuild(t *testing.T) {
	x := New(Options{Store: memstore.New()})
	e, err := x.Query().CaseAnalyses(context.Background())
	if !errors.Is(err, internalerr.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if e.Len() != 0 {
		t.Errorf("expected empty engine, got %d records", e.Len())
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := OpenStore(ctx, filepath.Join(dir, "examdex.db"))
	if err != nil {
		t.Fatalf("OpenStore(db): %v", err)
	}
	if _, ok := st.(*sqlite.Store); !ok {
		t.Errorf("expected *sqlite.Store, got %T", st)
	}
	st.Close()

	st, err = OpenStore(ctx, filepath.Join(dir, "examdex.json"))
	if err != nil {
		t.Fatalf("OpenStore(json): %v", err)
	}
	if _, ok := st.(*jsonfile.Store); !ok {
		t.Errorf("expected *jsonfile.Store, got %T", st)
	}
}

func TestBuildToSQLite(t *testing.T) {
	ctx := context.Background()
	st, err := OpenStore(ctx, filepath.Join(t.TempDir(), "examdex.sqlite"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	x := New(Options{Store: st})
	defer x.Close()

	if _, err := x.Build(ctx, writeContent(t)); err != nil {
		t.Fatalf("Build: %v", err)
	}
	quizzes, err := x.Query().Quizzes(ctx)
	if err != nil {
		t.Fatalf("Quizzes: %v", err)
	}
	if name := quizzes.DisplayName(record.DimYears, "2024-2"); name != "2024年下半年" {
		t.Errorf("DisplayName = %q", name)
	}
}
