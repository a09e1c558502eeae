package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"mealprep-backend/internal/mealprep"
	"mealprep-backend/internal/models"
)

type fakePlanStore struct {
	mu      sync.Mutex
	plans   []*models.MealPlan
	nextID  int
	creates int
	updates int
	err     error
}

func (f *fakePlanStore) ListPlansForUser(ctx context.Context, userID int) ([]*models.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.plans, nil
}

func (f *fakePlanStore) CreatePlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.creates++
	f.nextID++
	created := *plan
	created.ID = f.nextID
	f.plans = append(f.plans, &created)
	return &created, nil
}

func (f *fakePlanStore) UpdatePlan(ctx context.Context, id int, req *models.UpdateMealPlanRequest) (*models.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.updates++
	for _, p := range f.plans {
		if p.ID == id {
			if req.Days != nil {
				p.Days = *req.Days
			}
			return p, nil
		}
	}
	return nil, errors.New("plan not found")
}

func (f *fakePlanStore) DeletePlan(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakePlanStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakePlanStore) counts() (creates, updates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates
}

func TestEngineIsPerUser(t *testing.T) {
	svc := NewPrepService(&fakePlanStore{})
	ctx := context.Background()

	e1 := svc.Engine(ctx, 1)
	e2 := svc.Engine(ctx, 2)
	if e1 == e2 {
		t.Fatal("expected distinct engines for distinct users")
	}
	if svc.Engine(ctx, 1) != e1 {
		t.Fatal("expected the same engine on repeat access")
	}
}

func TestEngineSurvivesLoadFailure(t *testing.T) {
	store := &fakePlanStore{err: errors.New("db down")}
	svc := NewPrepService(store)
	ctx := context.Background()

	engine := svc.Engine(ctx, 1)
	failed, msg := engine.SaveFailed()
	if !failed || msg == "" {
		t.Fatalf("expected recorded load failure, got failed=%v msg=%q", failed, msg)
	}

	// The engine still accepts local mutations.
	store.setErr(nil)
	entry, err := svc.CreateEntry(ctx, 1, mealprep.CreateEntryInput{
		Name: "Lentil Soup", MealType: mealprep.Dinner, TotalPortions: 3, PrepDate: "2024-03-04",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if entry.Name != "Lentil Soup" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestCreateEntryPersistsPlan(t *testing.T) {
	store := &fakePlanStore{}
	svc := NewPrepService(store)
	ctx := context.Background()

	_, err := svc.CreateEntry(ctx, 1, mealprep.CreateEntryInput{
		Name: "Overnight Oats", MealType: mealprep.Breakfast, TotalPortions: 2, PrepDate: "2024-03-04",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if creates, _ := store.counts(); creates != 1 {
		t.Fatalf("expected 1 plan create, got %d", creates)
	}

	_, err = svc.CreateEntry(ctx, 1, mealprep.CreateEntryInput{
		Name: "Chili", MealType: mealprep.Dinner, TotalPortions: 4, PrepDate: "2024-03-04",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if creates, updates := store.counts(); creates != 1 || updates != 1 {
		t.Fatalf("expected cached plan id to route second save to update, got creates=%d updates=%d",
			creates, updates)
	}
}

// Two tabs of the same user share one engine, so concurrent requests
// must not corrupt its working set.
func TestConcurrentMutationsSameUser(t *testing.T) {
	store := &fakePlanStore{}
	svc := NewPrepService(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.CreateEntry(ctx, 1, mealprep.CreateEntryInput{
				Name:          fmt.Sprintf("Batch %d", n),
				MealType:      mealprep.Dinner,
				TotalPortions: 2,
				PrepDate:      "2024-03-04",
			})
			if err != nil {
				t.Errorf("CreateEntry: %v", err)
			}
		}(i)
	}
	wg.Wait()

	state := svc.State(ctx, 1)
	if len(state.Entries) != 8 {
		t.Fatalf("expected 8 entries after concurrent creates, got %d", len(state.Entries))
	}
	if state.SaveFailed {
		t.Fatalf("unexpected save failure: %s", state.SaveError)
	}
}

func TestStateIsDetachedFromEngine(t *testing.T) {
	svc := NewPrepService(&fakePlanStore{})
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, 1, mealprep.CreateEntryInput{
		Name: "Ramen", MealType: mealprep.Dinner, TotalPortions: 3, PrepDate: "2024-03-04",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	before := svc.State(ctx, 1)
	if _, err := svc.MarkConsumed(ctx, 1, entry.ID, 2); err != nil {
		t.Fatalf("MarkConsumed: %v", err)
	}

	if before.Entries[0].Portions[1].Consumed {
		t.Fatal("snapshot observed a mutation made after it was taken")
	}
	after := svc.State(ctx, 1)
	if !after.Entries[0].Portions[1].Consumed {
		t.Fatal("expected the consumed flag on a fresh snapshot")
	}
}

func TestSetPrepModeSavesPlan(t *testing.T) {
	store := &fakePlanStore{}
	svc := NewPrepService(store)
	ctx := context.Background()

	svc.SetPrepMode(ctx, 1, mealprep.PrepModeHeavy)
	if creates, _ := store.counts(); creates != 1 {
		t.Fatalf("expected mode change to persist the plan, got creates=%d", creates)
	}
	if state := svc.State(ctx, 1); state.PrepMode != mealprep.PrepModeHeavy {
		t.Fatalf("expected heavy mode, got %s", state.PrepMode)
	}
}

func TestSaveReportsOutcome(t *testing.T) {
	store := &fakePlanStore{}
	svc := NewPrepService(store)
	ctx := context.Background()

	if err := svc.Save(ctx, 1); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store.setErr(errors.New("db down"))
	if err := svc.Save(ctx, 1); err == nil {
		t.Fatal("expected save error")
	}
	failed, _ := svc.Engine(ctx, 1).SaveFailed()
	if !failed {
		t.Fatal("expected engine error state after failed save")
	}
}
