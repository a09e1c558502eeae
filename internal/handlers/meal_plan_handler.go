package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mealprep-backend/internal/middleware"
	"mealprep-backend/internal/models"
	"mealprep-backend/internal/services"
	plansync "mealprep-backend/internal/sync"
)

type MealPlanHandler struct {
	Service *services.MealPlanService
	Hub     *plansync.Hub
}

func NewMealPlanHandler(s *services.MealPlanService, hub *plansync.Hub) *MealPlanHandler {
	return &MealPlanHandler{Service: s, Hub: hub}
}

func (h *MealPlanHandler) notify(userID int, eventType string, planID int) {
	if h.Hub != nil {
		h.Hub.Notify(userID, plansync.Event{Type: eventType, PlanID: planID})
	}
}

func (h *MealPlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	plans, err := h.Service.ListPlans(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if plans == nil {
		plans = []*models.MealPlan{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

func (h *MealPlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	plan, err := h.Service.GetPlan(r.Context(), id, userID)
	if err != nil {
		http.Error(w, "Meal plan not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

func (h *MealPlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.CreateMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.CreatePlan(r.Context(), userID, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.notify(userID, "plan_created", plan.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(plan)
}

func (h *MealPlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.UpdatePlan(r.Context(), id, userID, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.notify(userID, "plan_updated", plan.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

func (h *MealPlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.DeletePlan(r.Context(), id, userID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.notify(userID, "plan_deleted", id)

	w.WriteHeader(http.StatusNoContent)
}

// AssignSlot sets one meal slot to a recipe
func (h *MealPlanHandler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.AssignSlot(r.Context(), userID, id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.notify(userID, "plan_updated", plan.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// ClearSlot empties one meal slot
func (h *MealPlanHandler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.Service.ClearSlot(r.Context(), userID, id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.notify(userID, "plan_updated", plan.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// Subscribe upgrades to a websocket that streams plan change events
func (h *MealPlanHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	h.Hub.HandleWebSocket(w, r, userID)
}
