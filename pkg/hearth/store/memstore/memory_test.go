package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cognicore/hearth/pkg/hearth/internalerr"
	"github.com/cognicore/hearth/pkg/hearth/store"
)

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	run := store.Run{
		ID:        "01A",
		Scenario:  "morning",
		Status:    store.StatusSolved,
		Actions:   []string{"turn_on(living_room)"},
		CreatedAt: time.Now(),
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, ok, err := s.GetRun(ctx, "01A")
	if err != nil || !ok {
		t.Fatalf("GetRun failed: ok=%v err=%v", ok, err)
	}
	if got.Scenario != "morning" || len(got.Actions) != 1 {
		t.Errorf("unexpected run: %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	_, ok, err := New().GetRun(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected missing run")
	}
}

func TestSaveRejectsEmptyID(t *testing.T) {
	s := New()
	err := s.SaveRun(context.Background(), store.Run{Scenario: "night"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	runs, _ := s.ListRuns(context.Background(), "", 0)
	if len(runs) != 0 {
		t.Errorf("run without ID should not be stored, got %d", len(runs))
	}
}

func TestCopiesActions(t *testing.T) {
	ctx := context.Background()
	s := New()
	actions := []string{"turn_on(kitchen)"}
	s.SaveRun(ctx, store.Run{ID: "1", Actions: actions})
	actions[0] = "mutated"

	got, _, _ := s.GetRun(ctx, "1")
	if got.Actions[0] != "turn_on(kitchen)" {
		t.Errorf("store shares the caller's slice: %v", got.Actions)
	}
}

func TestListRunsOrderFilterLimit(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		scenario := "morning"
		if i%2 == 1 {
			scenario = "party"
		}
		s.SaveRun(ctx, store.Run{
			ID:        fmt.Sprintf("%02d", i),
			Scenario:  scenario,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	all, _ := s.ListRuns(ctx, "", 0)
	if len(all) != 5 {
		t.Fatalf("expected 5 runs, got %d", len(all))
	}
	if all[0].ID != "04" || all[4].ID != "00" {
		t.Errorf("expected newest first, got %s..%s", all[0].ID, all[4].ID)
	}

	morning, _ := s.ListRuns(ctx, "morning", 0)
	if len(morning) != 3 {
		t.Errorf("expected 3 morning runs, got %d", len(morning))
	}

	limited, _ := s.ListRuns(ctx, "", 2)
	if len(limited) != 2 || limited[0].ID != "04" {
		t.Errorf("expected the 2 newest runs, got %+v", limited)
	}
}

func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.SaveRun(ctx, store.Run{ID: fmt.Sprintf("run-%d", i), CreatedAt: time.Now()})
		}(i)
	}
	wg.Wait()

	runs, _ := s.ListRuns(ctx, "", 100)
	if len(runs) != 50 {
		t.Errorf("expected 50 runs, got %d", len(runs))
	}
}
