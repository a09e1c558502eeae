package models

import "time"

// MealDay is one calendar day inside a meal plan. Each slot is stored as
// two parallel fields: a free-text name and a nullable recipe reference.
// At most one of the pair is set; an empty text field plus a nil id means
// the slot is empty. Day is derived from Date and never authoritative.
type MealDay struct {
	ID         int    `json:"id"`
	MealPlanID int    `json:"meal_plan_id"`
	Day        string `json:"day"`  // Weekday label, derived from Date
	Date       string `json:"date"` // YYYY-MM-DD
	Breakfast  string `json:"breakfast"`
	Lunch      string `json:"lunch"`
	Dinner     string `json:"dinner"`

	BreakfastID *int `json:"breakfast_id"`
	LunchID     *int `json:"lunch_id"`
	DinnerID    *int `json:"dinner_id"`

	// Joined recipe relations, populated on reads
	BreakfastRecipe *RecipeRef `json:"breakfast_recipe,omitempty"`
	LunchRecipe     *RecipeRef `json:"lunch_recipe,omitempty"`
	DinnerRecipe    *RecipeRef `json:"dinner_recipe,omitempty"`
}

type MealPlan struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	EndDate   string    `json:"end_date"`   // YYYY-MM-DD
	IsActive  bool      `json:"is_active"`
	Days      []MealDay `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateMealPlanRequest represents the request body for creating a meal plan
type CreateMealPlanRequest struct {
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	Days      []MealDay `json:"days"`
}

// UpdateMealPlanRequest represents the request body for updating a meal plan.
// Nil fields are left unchanged; a non-nil Days replaces the full day set.
type UpdateMealPlanRequest struct {
	Name      *string    `json:"name"`
	StartDate *string    `json:"start_date"`
	EndDate   *string    `json:"end_date"`
	IsActive  *bool      `json:"is_active"`
	Days      *[]MealDay `json:"days"`
}

// SlotRequest addresses one (day, meal type) cell by zero-based day index
type SlotRequest struct {
	DayIndex int    `json:"day_index"`
	MealType string `json:"meal_type"`
	RecipeID int    `json:"recipe_id,omitempty"`
}
