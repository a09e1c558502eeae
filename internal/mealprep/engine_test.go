package mealprep

import (
	"context"
	"errors"
	"testing"

	"mealprep-backend/internal/models"
)

// fakePlanStore records calls and can be told to fail.
type fakePlanStore struct {
	plans   []*models.MealPlan
	nextID  int
	updates []int
	creates int
	err     error
}

func (f *fakePlanStore) ListPlansForUser(ctx context.Context, userID int) ([]*models.MealPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.plans, nil
}

func (f *fakePlanStore) CreatePlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
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
	if f.err != nil {
		return nil, f.err
	}
	f.updates = append(f.updates, id)
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
	return f.err
}

func newTestEngine(store *fakePlanStore) *Engine {
	return NewEngine(NewScheduler(), store, 1)
}

func intPtr(n int) *int { return &n }

func TestToSlotGridTextAndRecipe(t *testing.T) {
	s := NewScheduler()
	s.CreateEntry(CreateEntryInput{
		Name: "Pancakes", MealType: Breakfast, TotalPortions: 2, PrepDate: "2024-01-01",
	})
	s.CreateEntry(CreateEntryInput{
		Name: "Garlic Chicken", MealType: Dinner, TotalPortions: 3, PrepDate: "2024-01-01",
		RecipeID: intPtr(42),
	})
	s.CreateEntry(CreateEntryInput{
		Name: "Quinoa Salad", MealType: Lunch, TotalPortions: 4, PrepDate: "2024-01-02",
	})

	days := ToSlotGrid(s.Entries())
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	mon := days[0]
	if mon.Date != "2024-01-01" || mon.Day != "Monday" {
		t.Errorf("day 0 = %s/%s, want Monday 2024-01-01", mon.Day, mon.Date)
	}
	if mon.Breakfast != "Pancakes" || mon.BreakfastID != nil {
		t.Errorf("breakfast = %q/%v, want text Pancakes", mon.Breakfast, mon.BreakfastID)
	}
	if mon.DinnerID == nil || *mon.DinnerID != 42 {
		t.Errorf("dinner id = %v, want 42", mon.DinnerID)
	}
	if mon.Dinner != "" {
		t.Errorf("dinner text = %q, want blanked when recipe id is set", mon.Dinner)
	}

	tue := days[1]
	if tue.Day != "Tuesday" || tue.Lunch != "Quinoa Salad" {
		t.Errorf("day 1 = %s lunch %q", tue.Day, tue.Lunch)
	}
}

func TestToSlotGridCollisionLastWriteWins(t *testing.T) {
	s := NewScheduler()
	s.CreateEntry(CreateEntryInput{
		Name: "First Dinner", MealType: Dinner, TotalPortions: 1, PrepDate: "2024-01-01",
	})
	s.CreateEntry(CreateEntryInput{
		Name: "Second Dinner", MealType: Dinner, TotalPortions: 1, PrepDate: "2024-01-01",
	})

	days := ToSlotGrid(s.Entries())
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Dinner != "Second Dinner" {
		t.Errorf("dinner = %q, want the later entry to win", days[0].Dinner)
	}
}

func TestToSlotGridSkipsUnrecognizedMealType(t *testing.T) {
	days := ToSlotGrid([]*Entry{{
		Name: "Snack", MealType: "snack", TotalPortions: 1, PrepDate: "2024-01-01",
	}})
	if len(days) != 0 {
		t.Errorf("unrecognized meal types must not produce days, got %d", len(days))
	}
}

func TestFromSlotGridRecipeRelation(t *testing.T) {
	e := newTestEngine(&fakePlanStore{})
	plan := &models.MealPlan{
		ID: 1,
		Days: []models.MealDay{{
			Day:             "Monday",
			Date:            "2024-01-01",
			BreakfastID:     intPtr(42),
			BreakfastRecipe: &models.RecipeRef{ID: 42, Title: "Oatmeal"},
		}},
	}

	entries, err := e.FromSlotGrid(plan)
	if err != nil {
		t.Fatalf("FromSlotGrid: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Name != "Oatmeal" {
		t.Errorf("name = %q, want recipe title", got.Name)
	}
	if got.RecipeID == nil || *got.RecipeID != 42 {
		t.Errorf("recipe id = %v, want 42", got.RecipeID)
	}
	if got.MealType != Breakfast || got.TotalPortions != 1 {
		t.Errorf("entry = %s x%d, want breakfast x1", got.MealType, got.TotalPortions)
	}
	if got.PrepDate != "2024-01-01" {
		t.Errorf("prep date = %s", got.PrepDate)
	}
}

func TestFromSlotGridBareIDAndNumericText(t *testing.T) {
	e := newTestEngine(&fakePlanStore{})
	plan := &models.MealPlan{
		ID: 1,
		Days: []models.MealDay{{
			Day:     "Monday",
			Date:    "2024-01-01",
			LunchID: intPtr(7), // bare id, no joined relation
			Dinner:  "15",      // legacy numeric text
		}},
	}

	entries, err := e.FromSlotGrid(plan)
	if err != nil {
		t.Fatalf("FromSlotGrid: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	lunch := entries[0]
	if lunch.Name != "Recipe #7" || lunch.RecipeID == nil || *lunch.RecipeID != 7 {
		t.Errorf("bare id entry = %q/%v, want Recipe #7", lunch.Name, lunch.RecipeID)
	}
	dinner := entries[1]
	if dinner.Name != "Recipe #15" || dinner.RecipeID == nil || *dinner.RecipeID != 15 {
		t.Errorf("numeric text entry = %q/%v, want Recipe #15", dinner.Name, dinner.RecipeID)
	}
}

func TestFromSlotGridPlainText(t *testing.T) {
	e := newTestEngine(&fakePlanStore{})
	plan := &models.MealPlan{
		ID:   1,
		Days: []models.MealDay{{Day: "Monday", Date: "2024-01-01", Breakfast: "Smoothie"}},
	}

	entries, err := e.FromSlotGrid(plan)
	if err != nil {
		t.Fatalf("FromSlotGrid: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "Smoothie" || entries[0].RecipeID != nil {
		t.Errorf("entry = %q/%v, want plain text Smoothie", entries[0].Name, entries[0].RecipeID)
	}
}

// Round trip reproduces names and meal types for non-empty slots, and
// nothing more; portion structure intentionally collapses to 1.
func TestRoundTripIsLossyButKeepsSlotIdentity(t *testing.T) {
	s := NewScheduler()
	s.CreateEntry(CreateEntryInput{
		Name: "Garlic Chicken", MealType: Dinner, TotalPortions: 3, PrepDate: "2024-01-01",
	})
	s.CreateEntry(CreateEntryInput{
		Name: "Quinoa Salad", MealType: Lunch, TotalPortions: 4, PrepDate: "2024-01-02",
	})

	days := ToSlotGrid(s.Entries())
	e := newTestEngine(&fakePlanStore{})
	entries, err := e.FromSlotGrid(&models.MealPlan{ID: 1, Days: days})
	if err != nil {
		t.Fatalf("FromSlotGrid: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries back, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.TotalPortions != 1 {
			t.Errorf("%s: total portions = %d, reconstruction must collapse to 1", entry.Name, entry.TotalPortions)
		}
	}

	byName := map[string]MealType{}
	for _, entry := range entries {
		byName[entry.Name] = entry.MealType
	}
	if byName["Garlic Chicken"] != Dinner || byName["Quinoa Salad"] != Lunch {
		t.Errorf("slot identity lost in round trip: %v", byName)
	}
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	store := &fakePlanStore{}
	e := newTestEngine(store)
	ctx := context.Background()

	if _, err := e.CreateEntry(ctx, CreateEntryInput{
		Name: "Chili", MealType: Dinner, TotalPortions: 3, PrepDate: "2024-01-01",
	}); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if store.creates != 1 {
		t.Fatalf("expected 1 plan create, got %d", store.creates)
	}
	if e.PlanID() == nil || *e.PlanID() != 1 {
		t.Fatalf("plan id not cached after first save: %v", e.PlanID())
	}

	entry := e.Scheduler().Entries()[0]
	if ok, err := e.MarkConsumed(ctx, entry.ID, 2); !ok || err != nil {
		t.Fatalf("MarkConsumed: %v %v", ok, err)
	}
	if store.creates != 1 || len(store.updates) != 1 || store.updates[0] != 1 {
		t.Errorf("second save must update plan 1: creates=%d updates=%v", store.creates, store.updates)
	}
}

func TestSaveFailureKeepsLocalState(t *testing.T) {
	store := &fakePlanStore{err: errors.New("connection refused")}
	e := newTestEngine(store)

	entry, err := e.CreateEntry(context.Background(), CreateEntryInput{
		Name: "Chili", MealType: Dinner, TotalPortions: 3, PrepDate: "2024-01-01",
	})
	if err == nil {
		t.Fatal("expected save error")
	}
	if entry == nil {
		t.Fatal("entry must still be returned on save failure")
	}
	if len(e.Scheduler().Entries()) != 1 {
		t.Error("local mutation must survive the failed save")
	}
	failed, msg := e.SaveFailed()
	if !failed || msg == "" {
		t.Errorf("error state = %v %q, want flagged with a message", failed, msg)
	}

	// The next successful save clears the error state.
	store.err = nil
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if failed, _ := e.SaveFailed(); failed {
		t.Error("error state must clear on a successful save")
	}
}

func TestLoadPicksFirstActivePlan(t *testing.T) {
	store := &fakePlanStore{plans: []*models.MealPlan{
		{ID: 10, IsActive: false, Days: []models.MealDay{{Day: "Monday", Date: "2024-01-01", Breakfast: "Stale"}}},
		{ID: 11, IsActive: true, Days: []models.MealDay{{Day: "Tuesday", Date: "2024-01-02", Dinner: "Fresh Curry"}}},
		{ID: 12, IsActive: true},
	}}
	e := newTestEngine(store)

	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.PlanID() == nil || *e.PlanID() != 11 {
		t.Errorf("plan id = %v, want the first active plan 11", e.PlanID())
	}
	entries := e.Scheduler().Entries()
	if len(entries) != 1 || entries[0].Name != "Fresh Curry" {
		t.Errorf("loaded entries = %+v", entries)
	}
	// Loads must not write back what was just read.
	if store.creates != 0 || len(store.updates) != 0 {
		t.Errorf("load triggered a write: creates=%d updates=%v", store.creates, store.updates)
	}
}

func TestLoadFallsBackToFirstPlan(t *testing.T) {
	store := &fakePlanStore{plans: []*models.MealPlan{
		{ID: 5, IsActive: false},
		{ID: 6, IsActive: false},
	}}
	e := newTestEngine(store)

	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if e.PlanID() == nil || *e.PlanID() != 5 {
		t.Errorf("plan id = %v, want first plan 5", e.PlanID())
	}
}

func TestLoadFailureLeavesPriorStateUntouched(t *testing.T) {
	store := &fakePlanStore{}
	e := newTestEngine(store)
	ctx := context.Background()
	e.CreateEntry(ctx, CreateEntryInput{
		Name: "Keeper", MealType: Dinner, TotalPortions: 2, PrepDate: "2024-01-01",
	})

	store.err = errors.New("auth expired")
	if err := e.Load(ctx); err == nil {
		t.Fatal("expected load error")
	}
	if len(e.Scheduler().Entries()) != 1 || e.Scheduler().Entries()[0].Name != "Keeper" {
		t.Error("failed load must not clobber the working set")
	}
	if failed, _ := e.SaveFailed(); !failed {
		t.Error("load failure must set the error state")
	}
}

func TestDeleteEntryPersists(t *testing.T) {
	store := &fakePlanStore{}
	e := newTestEngine(store)
	ctx := context.Background()

	entry, _ := e.CreateEntry(ctx, CreateEntryInput{
		Name: "Chili", MealType: Dinner, TotalPortions: 2, PrepDate: "2024-01-01",
	})

	ok, err := e.DeleteEntry(ctx, "missing")
	if ok || err != nil {
		t.Errorf("deleting a missing id = %v %v, want false and no save", ok, err)
	}
	savesBefore := len(store.updates)

	ok, err = e.DeleteEntry(ctx, entry.ID)
	if !ok || err != nil {
		t.Fatalf("DeleteEntry: %v %v", ok, err)
	}
	if len(store.updates) != savesBefore+1 {
		t.Error("successful delete must persist the emptied grid")
	}
}
