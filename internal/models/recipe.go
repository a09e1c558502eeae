package models

import "time"

type Recipe struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	PrepTime     int       `json:"prep_time,omitempty"` // minutes
	CookTime     int       `json:"cook_time,omitempty"` // minutes
	Servings     int       `json:"servings,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	UserID       int       `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecipeRef is the trimmed relation shape joined into meal plan days.
// Extra recipe fields are intentionally not carried here.
type RecipeRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	ImageURL     string   `json:"image_url"`
}

// UpdateRecipeRequest represents the request body for updating a recipe
type UpdateRecipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	ImageURL     string   `json:"image_url"`
}
