package mealprep

import (
	"testing"

	"mealprep-backend/internal/models"
)

func twoDayGrid() *Grid {
	return &Grid{Days: []models.MealDay{
		{Day: "Monday", Date: "2024-01-01"},
		{Day: "Tuesday", Date: "2024-01-02"},
	}}
}

func TestSetSlotRecipeClearsText(t *testing.T) {
	g := twoDayGrid()
	g.Days[0].Breakfast = "Porridge"

	if err := g.SetSlotRecipe(0, Breakfast, 42); err != nil {
		t.Fatalf("SetSlotRecipe: %v", err)
	}
	day := g.Days[0]
	if day.BreakfastID == nil || *day.BreakfastID != 42 {
		t.Errorf("breakfast id = %v, want 42", day.BreakfastID)
	}
	if day.Breakfast != "" {
		t.Errorf("breakfast text = %q, want empty after recipe assignment", day.Breakfast)
	}
}

func TestSetSlotTextClearsRecipeID(t *testing.T) {
	g := twoDayGrid()
	if err := g.SetSlotRecipe(1, Dinner, 7); err != nil {
		t.Fatalf("SetSlotRecipe: %v", err)
	}
	if err := g.SetSlotText(1, Dinner, "Leftover Soup"); err != nil {
		t.Fatalf("SetSlotText: %v", err)
	}
	day := g.Days[1]
	if day.DinnerID != nil {
		t.Errorf("dinner id = %v, want nil after text assignment", day.DinnerID)
	}
	if day.Dinner != "Leftover Soup" {
		t.Errorf("dinner text = %q", day.Dinner)
	}
}

func TestClearSlot(t *testing.T) {
	g := twoDayGrid()
	g.SetSlotRecipe(0, Lunch, 3)
	if err := g.ClearSlot(0, Lunch); err != nil {
		t.Fatalf("ClearSlot: %v", err)
	}
	slot, err := g.Slot(0, Lunch)
	if err != nil {
		t.Fatalf("Slot: %v", err)
	}
	if slot.Kind != SlotEmpty {
		t.Errorf("slot kind = %v, want empty", slot.Kind)
	}
}

func TestSlotUnionView(t *testing.T) {
	g := twoDayGrid()
	g.SetSlotText(0, Breakfast, "Oatmeal")
	g.SetSlotRecipe(0, Dinner, 9)

	slot, _ := g.Slot(0, Breakfast)
	if slot.Kind != SlotText || slot.Text != "Oatmeal" {
		t.Errorf("breakfast slot = %+v, want text Oatmeal", slot)
	}
	slot, _ = g.Slot(0, Dinner)
	if slot.Kind != SlotRecipe || slot.RecipeID != 9 {
		t.Errorf("dinner slot = %+v, want recipe 9", slot)
	}
	slot, _ = g.Slot(0, Lunch)
	if slot.Kind != SlotEmpty {
		t.Errorf("lunch slot = %+v, want empty", slot)
	}
}

// Out-of-range day indexes are faults, unlike scheduler lookup misses.
func TestGridIndexOutOfRangeIsError(t *testing.T) {
	g := twoDayGrid()
	if err := g.SetSlotText(2, Dinner, "x"); err == nil {
		t.Error("index past the end must error")
	}
	if err := g.SetSlotRecipe(-1, Dinner, 1); err == nil {
		t.Error("negative index must error")
	}
	if err := g.ClearSlot(5, Breakfast); err == nil {
		t.Error("ClearSlot out of range must error")
	}
	if _, err := g.Slot(2, Lunch); err == nil {
		t.Error("Slot out of range must error")
	}
}
