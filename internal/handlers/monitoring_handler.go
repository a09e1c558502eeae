package handlers

import (
	"encoding/json"
	"net/http"

	"mealprep-backend/internal/monitoring"
)

type MonitoringHandler struct {
	Collector *monitoring.Collector
}

func NewMonitoringHandler(c *monitoring.Collector) *MonitoringHandler {
	return &MonitoringHandler{Collector: c}
}

// SystemStats returns a snapshot of database and host metrics
func (h *MonitoringHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	stats := h.Collector.Collect(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
