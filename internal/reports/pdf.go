// Package reports renders printable meal plan summaries.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"mealprep-backend/internal/models"
)

// slotLabel prefers the joined recipe title, then the free-text name
func slotLabel(text string, ref *models.RecipeRef) string {
	if ref != nil && ref.Title != "" {
		return ref.Title
	}
	if text != "" {
		return text
	}
	return "-"
}

// GeneratePlanPDF renders a meal plan as one table row per day
func GeneratePlanPDF(plan *models.MealPlan) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, plan.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("%s to %s", plan.StartDate, plan.EndDate), "", 1, "C", false, 0, "")
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(35, 8, "Day", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 8, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 8, "Breakfast", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 8, "Lunch", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 8, "Dinner", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	fill := false
	pdf.SetFillColor(240, 240, 240)
	for _, day := range plan.Days {
		pdf.CellFormat(35, 7, day.Day, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(32, 7, day.Date, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(70, 7, slotLabel(day.Breakfast, day.BreakfastRecipe), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(70, 7, slotLabel(day.Lunch, day.LunchRecipe), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(70, 7, slotLabel(day.Dinner, day.DinnerRecipe), "1", 1, "L", fill, 0, "")
		fill = !fill
	}

	if len(plan.Days) == 0 {
		pdf.CellFormat(277, 7, "No days planned yet", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
