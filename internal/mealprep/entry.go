package mealprep

import (
	"fmt"

	"mealprep-backend/internal/timeutil"
)

// MealType is the slot a meal occupies within a day.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the recognized slot types in day order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// Valid reports whether t is one of the three recognized slot types.
func (t MealType) Valid() bool {
	return t == Breakfast || t == Lunch || t == Dinner
}

// PrepMode labels a prep event by batch-size heuristic. It is a label
// only: an entry may carry any mode regardless of its portion count.
type PrepMode string

const (
	PrepModeHeavy    PrepMode = "heavy"    // few meals, many servings each
	PrepModeBalanced PrepMode = "balanced" // default
	PrepModeLight    PrepMode = "light"    // many meals, few servings each
)

// Portion is one serving-consumption instance of an entry. Portion 1 is
// always eaten on the entry's prep date.
type Portion struct {
	PortionNumber int    `json:"portion_number"` // 1-based
	Date          string `json:"date"`           // YYYY-MM-DD
	Consumed      bool   `json:"consumed"`
}

// Entry is one real-world batch-cooking event and its dated portions.
//
// NeedsPrep and IsPrepared are tri-state: nil means the field predates
// the entry (older records never set them) and must be treated as
// "still pending" by anything that filters on prep status.
type Entry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MealType      MealType  `json:"meal_type"`
	TotalPortions int       `json:"total_portions"`
	PrepDate      string    `json:"prep_date"` // YYYY-MM-DD
	Portions      []Portion `json:"portions"`
	RecipeID      *int      `json:"recipe_id,omitempty"`
	NeedsPrep     *bool     `json:"needs_prep,omitempty"`
	IsPrepared    *bool     `json:"is_prepared,omitempty"`
	PrepMode      PrepMode  `json:"prep_mode"`
	Color         string    `json:"color"`
}

// CreateEntryInput carries the caller-supplied fields for a new entry.
type CreateEntryInput struct {
	Name          string   `json:"name"`
	MealType      MealType `json:"meal_type"`
	TotalPortions int      `json:"total_portions"`
	PrepDate      string   `json:"prep_date"`
	RecipeID      *int     `json:"recipe_id,omitempty"`
	NeedsPrep     *bool    `json:"needs_prep,omitempty"`
	IsPrepared    *bool    `json:"is_prepared,omitempty"`
	PrepMode      PrepMode `json:"prep_mode,omitempty"`
}

// validate rejects bad input before any state is touched.
func (in CreateEntryInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("meal prep entry requires a name")
	}
	if in.TotalPortions < 1 {
		return fmt.Errorf("total portions must be at least 1, got %d", in.TotalPortions)
	}
	if !timeutil.IsValidDate(in.PrepDate) {
		return fmt.Errorf("invalid prep date %q", in.PrepDate)
	}
	return nil
}

// defaultPortions builds the dated portion sequence for a prep date:
// portion 1 on the prep date, portion k on prepDate + (k-1) days.
func defaultPortions(prepDate string, total int) []Portion {
	portions := make([]Portion, 0, total)
	portions = append(portions, Portion{PortionNumber: 1, Date: prepDate})
	for k := 2; k <= total; k++ {
		portions = append(portions, Portion{
			PortionNumber: k,
			Date:          timeutil.AddDays(prepDate, k-1),
		})
	}
	return portions
}

// IsLeftover reports whether a portion number refers to a leftover
// (anything after the first-day serving).
func IsLeftover(portionNumber int) bool {
	return portionNumber > 1
}
