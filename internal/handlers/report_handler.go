package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mealprep-backend/internal/middleware"
	"mealprep-backend/internal/reports"
	"mealprep-backend/internal/services"
)

type ReportHandler struct {
	Plans *services.MealPlanService
}

func NewReportHandler(plans *services.MealPlanService) *ReportHandler {
	return &ReportHandler{Plans: plans}
}

// PlanPDF streams a printable PDF of one meal plan
func (h *ReportHandler) PlanPDF(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	plan, err := h.Plans.GetPlan(r.Context(), id, userID)
	if err != nil {
		http.Error(w, "Meal plan not found", http.StatusNotFound)
		return
	}

	pdfBytes, err := reports.GeneratePlanPDF(plan)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="meal-plan-%d.pdf"`, plan.ID))
	w.Write(pdfBytes)
}
