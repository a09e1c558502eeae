package reports

import (
	"bytes"
	"testing"

	"mealprep-backend/internal/models"
)

func TestGeneratePlanPDF(t *testing.T) {
	plan := &models.MealPlan{
		ID:        1,
		Name:      "Week of March 4",
		StartDate: "2024-03-04",
		EndDate:   "2024-03-10",
		Days: []models.MealDay{
			{Day: "Monday", Date: "2024-03-04", Breakfast: "Oatmeal", Dinner: "Chili"},
			{Day: "Tuesday", Date: "2024-03-05", DinnerRecipe: &models.RecipeRef{ID: 7, Title: "Pad Thai"}},
		},
	}

	data, err := GeneratePlanPDF(plan)
	if err != nil {
		t.Fatalf("GeneratePlanPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF, starts with %q", data[:8])
	}
}

func TestGeneratePlanPDFEmptyPlan(t *testing.T) {
	data, err := GeneratePlanPDF(&models.MealPlan{ID: 2, Name: "Empty"})
	if err != nil {
		t.Fatalf("GeneratePlanPDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
}

func TestSlotLabel(t *testing.T) {
	if got := slotLabel("Soup", nil); got != "Soup" {
		t.Fatalf("slotLabel text: got %q", got)
	}
	if got := slotLabel("Soup", &models.RecipeRef{ID: 1, Title: "Ramen"}); got != "Ramen" {
		t.Fatalf("slotLabel prefers recipe title: got %q", got)
	}
	if got := slotLabel("", nil); got != "-" {
		t.Fatalf("slotLabel empty: got %q", got)
	}
}
