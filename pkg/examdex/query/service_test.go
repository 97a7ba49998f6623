package query

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/artifact/jsonfile"
	"github.com/cognicore/examdex/pkg/examdex/artifact/memstore"
	"github.com/cognicore/examdex/pkg/examdex/index"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

type countingSource struct {
	loads  atomic.Int32
	bundle *artifact.Bundle
	err    error
}

func (s *countingSource) Load(ctx context.Context) (*artifact.Bundle, error) {
	s.loads.Add(1)
	return s.bundle, s.err
}

func testBundle() *artifact.Bundle {
	quizzes := testQuizzes()
	return &artifact.Bundle{
		BuildID: testInfo.ID,
		BuiltAt: testInfo.At,
		Quizzes: artifact.NewSection(quizzes, index.Build(record.KindQuiz, quizzes, testInfo, index.Options{})),
	}
}

func TestServiceLoadsOnce(t *testing.T) {
	src := &countingSource{bundle: testBundle()}
	svc := NewService(src, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := svc.Quizzes(ctx)
			if err != nil {
				t.Errorf("Quizzes: %v", err)
				return
			}
			if got := e.ByDimension(record.DimDifficulty, "basic"); len(got) != 2 {
				t.Errorf("expected 2 basic quizzes, got %d", len(got))
			}
		}()
	}
	wg.Wait()

	if n := src.loads.Load(); n != 1 {
		t.Errorf("artifact loaded %d times, want 1", n)
	}
}

func TestServiceFromStore(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.Save(ctx, testBundle()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	svc := NewService(st, nil)
	id, err := svc.BuildID(ctx)
	if err != nil || id != testInfo.ID {
		t.Errorf("BuildID = %q, %v", id, err)
	}
	cases, err := svc.Narratives(ctx, record.KindCaseAnalysis)
	if err != nil {
		t.Fatalf("Narratives: %v", err)
	}
	if cases.Len() != 0 {
		t.Errorf("expected no case analyses, got %d", cases.Len())
	}
	if _, err := svc.Narratives(ctx, record.KindQuiz); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for quiz kind, got %v", err)
	}
}

func TestServiceNoData(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)

	e, err := svc.Quizzes(ctx)
	if !errors.Is(err, internalerr.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if e == nil || e.Len() != 0 || len(e.Search("x")) != 0 {
		t.Error("failed load should yield an empty engine")
	}

	essays, err := svc.EssayGuidance(ctx)
	if essays == nil || !errors.Is(err, internalerr.ErrNoData) {
		t.Errorf("every engine should report the load failure, got %v", err)
	}
}

func TestServiceWrapsLoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewService(&countingSource{err: boom}, nil)

	_, err := svc.CaseAnalyses(context.Background())
	if !errors.Is(err, internalerr.ErrNoData) || !errors.Is(err, boom) {
		t.Errorf("expected error wrapping ErrNoData and the cause, got %v", err)
	}
}

func TestServiceLoadIgnoresCallerCancellation(t *testing.T) {
	st := jsonfile.Open(filepath.Join(t.TempDir(), "content.json"))
	if err := st.Save(context.Background(), testBundle()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	svc := NewService(st, nil)
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := svc.Quizzes(canceled)
	if err != nil {
		t.Fatalf("first call with a canceled context: %v", err)
	}
	if e.Len() != len(testQuizzes()) {
		t.Errorf("Len = %d, want %d", e.Len(), len(testQuizzes()))
	}

	if _, err := svc.Quizzes(context.Background()); err != nil {
		t.Errorf("later call: %v", err)
	}
}
