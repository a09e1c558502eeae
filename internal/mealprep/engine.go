package mealprep

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"mealprep-backend/internal/models"
	"mealprep-backend/internal/timeutil"
)

// PlanStore is the persistence collaborator. It is the sole arbiter of
// conflicting writes from concurrent sessions; the engine does no
// optimistic concurrency control, so the last full-grid write wins at
// the storage layer.
type PlanStore interface {
	ListPlansForUser(ctx context.Context, userID int) ([]*models.MealPlan, error)
	CreatePlan(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error)
	UpdatePlan(ctx context.Context, id int, req *models.UpdateMealPlanRequest) (*models.MealPlan, error)
	DeletePlan(ctx context.Context, id int) error
}

// Engine reconciles one session's scheduler working set with the
// persisted day-grid form. The current plan id and the save error state
// are per-engine fields, not globals: two sessions get two engines and
// never share plan identity through ambient state.
type Engine struct {
	sched  *Scheduler
	store  PlanStore
	userID int

	planID  *int
	failed  bool
	lastErr string
}

func NewEngine(sched *Scheduler, store PlanStore, userID int) *Engine {
	return &Engine{sched: sched, store: store, userID: userID}
}

func (e *Engine) Scheduler() *Scheduler { return e.sched }

// PlanID returns the cached current plan identifier, or nil before the
// first successful save or load of the session.
func (e *Engine) PlanID() *int { return e.planID }

// SaveFailed reports the error state of the most recent persistence
// attempt. The flag and message are cleared by the next attempt.
func (e *Engine) SaveFailed() (bool, string) { return e.failed, e.lastErr }

// ToSlotGrid flattens prep entries into the day-grid persisted form.
// Entries are grouped by prep date; each distinct date becomes a day
// whose weekday label is derived from the date. When two entries share
// a (prepDate, mealType) cell the later one in iteration order
// overwrites the earlier; last write wins, by contract.
func ToSlotGrid(entries []*Entry) []models.MealDay {
	byDate := make(map[string]int) // date -> index into days
	var days []models.MealDay

	for _, entry := range entries {
		if !entry.MealType.Valid() {
			continue
		}
		idx, ok := byDate[entry.PrepDate]
		if !ok {
			days = append(days, models.MealDay{
				Day:  timeutil.WeekdayName(entry.PrepDate),
				Date: entry.PrepDate,
			})
			idx = len(days) - 1
			byDate[entry.PrepDate] = idx
		}

		grid := Grid{Days: days}
		if entry.RecipeID != nil {
			grid.SetSlotRecipe(idx, entry.MealType, *entry.RecipeID)
		} else {
			grid.SetSlotText(idx, entry.MealType, entry.Name)
		}
	}

	// Days stay in first-seen order; the persisted sequence is addressed
	// positionally, so reordering here would move slots under callers.
	return days
}

// FromSlotGrid reconstitutes prep entries from a persisted plan. Every
// produced entry has totalPortions = 1: the grid stores only the
// flattened per-slot state, so batch-portion structure does not round
// trip. That loss is documented behavior, not a defect to fix here.
func (e *Engine) FromSlotGrid(plan *models.MealPlan) ([]*Entry, error) {
	if plan == nil {
		return nil, fmt.Errorf("cannot rebuild entries from a nil meal plan")
	}

	var entries []*Entry
	for i := range plan.Days {
		day := &plan.Days[i]
		for _, mealType := range MealTypes {
			entry, err := e.entryFromSlot(day, mealType)
			if err != nil {
				return nil, err
			}
			if entry != nil {
				entries = append(entries, entry)
			}
		}
	}
	return entries, nil
}

// entryFromSlot builds at most one entry from a day's cell. Precedence
// follows the persisted representation: a joined recipe relation wins,
// then a bare recipe id, then free text. Numeric free text is a legacy
// shim for plans written before the id columns existed and is still
// treated as a recipe reference.
func (e *Engine) entryFromSlot(day *models.MealDay, mealType MealType) (*Entry, error) {
	name := ""
	var recipeID *int

	recipe := slotRecipe(day, mealType)
	text, id := slotFields(day, mealType)

	switch {
	case recipe != nil:
		rid := recipe.ID
		recipeID = &rid
		name = recipe.Title
		if name == "" {
			name = fmt.Sprintf("Recipe #%d", recipe.ID)
		}
	case *id != nil:
		rid := **id
		recipeID = &rid
		name = fmt.Sprintf("Recipe #%d", rid)
	case *text != "":
		name = *text
		if n, err := strconv.Atoi(*text); err == nil {
			recipeID = &n
			name = fmt.Sprintf("Recipe #%d", n)
		}
	default:
		return nil, nil // empty slot
	}

	if name == "" {
		name = "Unnamed Meal"
	}

	notPending := false
	return &Entry{
		ID:            uuid.NewString(),
		Name:          name,
		MealType:      mealType,
		TotalPortions: 1,
		PrepDate:      day.Date,
		Portions:      defaultPortions(day.Date, 1),
		RecipeID:      recipeID,
		NeedsPrep:     &notPending,
		IsPrepared:    &notPending,
		PrepMode:      e.sched.PrepMode(),
	}, nil
}

// Save reconciles the working set into the day grid and pushes it to
// the store, synchronously. The first successful write of a session
// establishes the plan identity used by every later write. On failure
// the in-memory working set stays exactly as it was; only the error
// state changes.
func (e *Engine) Save(ctx context.Context) error {
	e.failed = false
	e.lastErr = ""

	days := ToSlotGrid(e.sched.Entries())
	today := timeutil.Today()

	if e.planID != nil {
		name := "My Meal Plan"
		active := true
		req := &models.UpdateMealPlanRequest{
			Name:     &name,
			IsActive: &active,
			Days:     &days,
		}
		if _, err := e.store.UpdatePlan(ctx, *e.planID, req); err != nil {
			e.fail(err)
			return fmt.Errorf("failed to save meal plan: %w", err)
		}
		return nil
	}

	plan := &models.MealPlan{
		UserID:    e.userID,
		Name:      "My Meal Plan",
		StartDate: today,
		EndDate:   timeutil.AddDays(today, 7),
		IsActive:  true,
		Days:      days,
	}
	created, err := e.store.CreatePlan(ctx, plan)
	if err != nil {
		e.fail(err)
		return fmt.Errorf("failed to save meal plan: %w", err)
	}
	e.planID = &created.ID
	return nil
}

// Load pulls the persisted grid and replaces the working set with its
// reconstituted entries. The first active plan is canonical; with no
// active plan the first plan at all is used. A load never triggers a
// write-back, and a failed load leaves the prior working set untouched.
func (e *Engine) Load(ctx context.Context) error {
	e.failed = false
	e.lastErr = ""

	plans, err := e.store.ListPlansForUser(ctx, e.userID)
	if err != nil {
		e.fail(err)
		return fmt.Errorf("failed to load meal plans: %w", err)
	}
	if len(plans) == 0 {
		return nil
	}

	plan := plans[0]
	for _, p := range plans {
		if p.IsActive {
			plan = p
			break
		}
	}

	entries, err := e.FromSlotGrid(plan)
	if err != nil {
		e.fail(err)
		return fmt.Errorf("failed to load meal plans: %w", err)
	}

	e.planID = &plan.ID
	e.sched.Replace(entries)
	return nil
}

// CreateEntry, MarkConsumed, UpdateServings and DeleteEntry are the
// persisting forms of the scheduler mutations: each reconciles and
// saves before returning. Callers batching several edits use the
// scheduler directly and call Save once.

func (e *Engine) CreateEntry(ctx context.Context, in CreateEntryInput) (*Entry, error) {
	entry, err := e.sched.CreateEntry(in)
	if err != nil {
		return nil, err
	}
	if err := e.Save(ctx); err != nil {
		// Local mutation stands; the save error is observable on the engine.
		return entry, err
	}
	return entry, nil
}

func (e *Engine) MarkConsumed(ctx context.Context, entryID string, portionNumber int) (bool, error) {
	if !e.sched.MarkConsumed(entryID, portionNumber) {
		return false, nil
	}
	return true, e.Save(ctx)
}

func (e *Engine) UpdateServings(ctx context.Context, entryID string, servings int) (bool, error) {
	ok, err := e.sched.UpdateServings(entryID, servings)
	if err != nil || !ok {
		return ok, err
	}
	return true, e.Save(ctx)
}

func (e *Engine) DeleteEntry(ctx context.Context, entryID string) (bool, error) {
	if !e.sched.DeleteEntry(entryID) {
		return false, nil
	}
	return true, e.Save(ctx)
}

func (e *Engine) fail(err error) {
	e.failed = true
	e.lastErr = err.Error()
}
