package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

func TestMemStoreCopySemantics(t *testing.T) {
	ctx := context.Background()
	st := New()

	b := &artifact.Bundle{BuildID: "first"}
	b.Quizzes.Records = []record.Quiz{{ID: "0001", Title: "原题"}}
	if err := st.Save(ctx, b); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b.BuildID = "mutated"
	b.Quizzes.Records[0].Title = "mutated"

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BuildID != "first" || got.Quizzes.Records[0].Title != "原题" {
		t.Errorf("store observed caller mutation: %+v", got)
	}

	got.Quizzes.Records[0].Title = "changed again"
	again, _ := st.Load(ctx)
	if again.Quizzes.Records[0].Title != "原题" {
		t.Error("loaded bundles should not share state")
	}
	if st.Saves() != 1 {
		t.Errorf("Saves = %d, want 1", st.Saves())
	}
}

func TestMemStoreEmpty(t *testing.T) {
	if _, err := New().Load(context.Background()); !errors.Is(err, internalerr.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
