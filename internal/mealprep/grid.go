package mealprep

import (
	"fmt"

	"mealprep-backend/internal/models"
)

// SlotKind discriminates the internal slot representation. The persisted
// form keeps a text field and a nullable recipe id side by side; inside
// this package a slot is exactly one of empty, text or recipe reference,
// and the pair of fields is written through at the boundary.
type SlotKind int

const (
	SlotEmpty SlotKind = iota
	SlotText
	SlotRecipe
)

// Slot is the tagged-union view of one (day, meal type) cell.
type Slot struct {
	Kind     SlotKind
	Text     string
	RecipeID int
}

// Grid is the ordered day sequence of a meal plan. Days are addressed
// by zero-based positional index, never keyed by date; an out-of-range
// index is a fault and propagates as an error, unlike the scheduler's
// not-found-is-false policy.
type Grid struct {
	Days []models.MealDay
}

func (g *Grid) day(index int) (*models.MealDay, error) {
	if index < 0 || index >= len(g.Days) {
		return nil, fmt.Errorf("day index %d out of range (plan has %d days)", index, len(g.Days))
	}
	return &g.Days[index], nil
}

// Slot reads the cell at (index, mealType) into its union form. A slot
// whose text field was never populated and one holding an explicit
// empty string are both reported as empty; callers must not rely on
// the difference.
func (g *Grid) Slot(index int, mealType MealType) (Slot, error) {
	day, err := g.day(index)
	if err != nil {
		return Slot{}, err
	}
	text, id := slotFields(day, mealType)
	if *id != nil {
		return Slot{Kind: SlotRecipe, RecipeID: **id}, nil
	}
	if *text != "" {
		return Slot{Kind: SlotText, Text: *text}, nil
	}
	return Slot{Kind: SlotEmpty}, nil
}

// SetSlotRecipe writes a recipe reference into a cell and blanks its
// text counterpart to the empty string.
func (g *Grid) SetSlotRecipe(index int, mealType MealType, recipeID int) error {
	day, err := g.day(index)
	if err != nil {
		return err
	}
	text, id := slotFields(day, mealType)
	rid := recipeID
	*id = &rid
	*text = ""
	return nil
}

// SetSlotText writes a free-text meal name into a cell and nulls its
// recipe reference.
func (g *Grid) SetSlotText(index int, mealType MealType, name string) error {
	day, err := g.day(index)
	if err != nil {
		return err
	}
	text, id := slotFields(day, mealType)
	*text = name
	*id = nil
	return nil
}

// ClearSlot empties a cell entirely.
func (g *Grid) ClearSlot(index int, mealType MealType) error {
	day, err := g.day(index)
	if err != nil {
		return err
	}
	text, id := slotFields(day, mealType)
	*text = ""
	*id = nil
	return nil
}

// slotFields maps a meal type onto the parallel field pair of a day.
// Callers must pass a recognized meal type; the engine filters before
// reaching here.
func slotFields(day *models.MealDay, mealType MealType) (text *string, id **int) {
	switch mealType {
	case Breakfast:
		return &day.Breakfast, &day.BreakfastID
	case Lunch:
		return &day.Lunch, &day.LunchID
	case Dinner:
		return &day.Dinner, &day.DinnerID
	default:
		panic(fmt.Sprintf("unrecognized meal type %q", mealType))
	}
}

// slotRecipe returns the joined recipe relation for a meal type, if the
// read path populated one.
func slotRecipe(day *models.MealDay, mealType MealType) *models.RecipeRef {
	switch mealType {
	case Breakfast:
		return day.BreakfastRecipe
	case Lunch:
		return day.LunchRecipe
	case Dinner:
		return day.DinnerRecipe
	default:
		return nil
	}
}
