package store

import (
	"context"
	"testing"
	"time"

	"github.com/dotfill/dotfill/pkg/pack"
)

func testResult() *pack.Result {
	return &pack.Result{
		Circles: []pack.Circle{{Row: 10, Col: 10, R: 5, Label: 1}},
		Notices: []pack.Notice{{Code: pack.NoticeNoRoom, Message: "no room"}},
	}
}

func TestNewRun(t *testing.T) {
	res := testResult()
	run := NewRun("shape.png", "abc123", 100, 80, 42, res)

	if run.ID == "" {
		t.Error("NewRun should assign an ID")
	}
	if run.CreatedAt.IsZero() {
		t.Error("NewRun should set CreatedAt")
	}
	if run.Source != "shape.png" || run.MaskHash != "abc123" {
		t.Errorf("run inputs not recorded: %+v", run)
	}
	if len(run.Circles) != 1 || len(run.Notices) != 1 {
		t.Errorf("run result not recorded: %+v", run)
	}

	other := NewRun("shape.png", "abc123", 100, 80, 42, res)
	if other.ID == run.ID {
		t.Error("each run should get a distinct ID")
	}
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	// Absent run reads as nil, nil
	got, err := s.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != nil {
		t.Error("Get of absent run should return nil")
	}

	run := NewRun("shape.png", "abc123", 100, 80, 42, testResult())
	if err := s.Put(ctx, run); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err = s.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatal("Get after Put should find the run")
	}
	if got.MaskHash != run.MaskHash || len(got.Circles) != 1 {
		t.Errorf("Get returned wrong run: %+v", got)
	}

	// Returned run is a copy
	got.Source = "mutated"
	again, _ := s.Get(ctx, run.ID)
	if again.Source != "shape.png" {
		t.Error("Get should return a copy, not shared state")
	}

	if err := s.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	got, _ = s.Get(ctx, run.ID)
	if got != nil {
		t.Error("Get after Delete should return nil")
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		run := NewRun("shape.png", "h", 10, 10, uint64(i), testResult())
		run.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := s.Put(ctx, run); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	runs, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].CreatedAt.After(runs[i-1].CreatedAt) {
			t.Error("List should order runs most recent first")
		}
	}
	if runs[0].Seed != 4 {
		t.Errorf("most recent run should come first, got seed %d", runs[0].Seed)
	}

	// limit 0 returns everything
	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("List(0) returned %d runs, want 5", len(all))
	}
}
