package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"mealprep-backend/internal/mealprep"
	"mealprep-backend/internal/middleware"
	"mealprep-backend/internal/services"
	"mealprep-backend/internal/timeutil"
)

// PrepHandler exposes the batch-cooking tracker. All state lives in the
// per-user engine; every mutation is persisted to the user's meal plan
// as a side effect, and a persistence failure is reported in the
// response body without rolling back the in-memory change.
type PrepHandler struct {
	Service *services.PrepService
}

func NewPrepHandler(s *services.PrepService) *PrepHandler {
	return &PrepHandler{Service: s}
}

// prepStateResponse is the envelope returned by every mutating call
type prepStateResponse struct {
	Entries    []*mealprep.Entry `json:"entries"`
	PrepMode   mealprep.PrepMode `json:"prep_mode"`
	SaveFailed bool              `json:"save_failed"`
	SaveError  string            `json:"save_error,omitempty"`
}

func (h *PrepHandler) writeState(w http.ResponseWriter, r *http.Request, status int) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	state := h.Service.State(r.Context(), userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(prepStateResponse{
		Entries:    state.Entries,
		PrepMode:   state.PrepMode,
		SaveFailed: state.SaveFailed,
		SaveError:  state.SaveError,
	})
}

// GetState returns all entries and the current prep mode
func (h *PrepHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, http.StatusOK)
}

// CreateEntry adds a batch-cooking entry with auto-generated portions
func (h *PrepHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var in mealprep.CreateEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.CreateEntry(r.Context(), userID, in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeState(w, r, http.StatusCreated)
}

// MarkConsumed flags one portion of an entry as eaten
func (h *PrepHandler) MarkConsumed(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	entryID := mux.Vars(r)["id"]

	var req struct {
		PortionNumber int `json:"portion_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	found, _ := h.Service.MarkConsumed(r.Context(), userID, entryID, req.PortionNumber)
	if !found {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// UpdateServings regenerates an entry's portions for a new count
func (h *PrepHandler) UpdateServings(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	entryID := mux.Vars(r)["id"]

	var req struct {
		Servings int `json:"servings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	found, err := h.Service.UpdateServings(r.Context(), userID, entryID, req.Servings)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !found {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// DeleteEntry removes a batch-cooking entry
func (h *PrepHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	entryID := mux.Vars(r)["id"]

	deleted, _ := h.Service.DeleteEntry(r.Context(), userID, entryID)
	if !deleted {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// Leftovers lists unconsumed leftover portions from today onward.
// An optional ?date=YYYY-MM-DD overrides "today".
func (h *PrepHandler) Leftovers(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	today := r.URL.Query().Get("date")
	if today == "" {
		today = timeutil.Today()
	} else if !timeutil.IsValidDate(today) {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	leftovers := h.Service.UpcomingLeftovers(r.Context(), userID, today)
	if leftovers == nil {
		leftovers = []mealprep.Leftover{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leftovers)
}

// TodaysPrep lists entries still waiting to be cooked today
func (h *PrepHandler) TodaysPrep(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	today := r.URL.Query().Get("date")
	if today == "" {
		today = timeutil.Today()
	} else if !timeutil.IsValidDate(today) {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	entries := h.Service.TodaysPrepList(r.Context(), userID, today)
	if entries == nil {
		entries = []*mealprep.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// SetPrepMode changes the mode applied to future entries
func (h *PrepHandler) SetPrepMode(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Mode mealprep.PrepMode `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	switch req.Mode {
	case mealprep.PrepModeHeavy, mealprep.PrepModeBalanced, mealprep.PrepModeLight:
	default:
		http.Error(w, "mode must be heavy, balanced, or light", http.StatusBadRequest)
		return
	}

	h.Service.SetPrepMode(r.Context(), userID, req.Mode)
	h.writeState(w, r, http.StatusOK)
}

// Save forces a write of the current entries to the stored meal plan
func (h *PrepHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.Save(r.Context(), userID); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.writeState(w, r, http.StatusOK)
}

// Reload re-reads the stored meal plan, discarding unsaved local state
func (h *PrepHandler) Reload(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	h.Service.Reload(r.Context(), userID)
	h.writeState(w, r, http.StatusOK)
}
