package api

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	profile, progress := h.engine.Design()
	writeJSON(w, map[string]interface{}{
		"progress": progress,
		"curve":    h.engine.Curve(),
		"profile":  profile,
	})
}

func (h *routerHandlers) handleEventStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetEventLogStats())
}

func (h *routerHandlers) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Progress *int `json:"progress"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Progress == nil {
		writeError(w, "progress is required", http.StatusBadRequest)
		return
	}
	if *req.Progress < 0 {
		writeError(w, "progress must not be negative", http.StatusBadRequest)
		return
	}

	log.Printf("🎚️ Progress set to %d via API", *req.Progress)
	h.engine.SetProgress(*req.Progress)
	writeJSON(w, map[string]interface{}{
		"success":  true,
		"progress": *req.Progress,
	})
}

func (h *routerHandlers) handleReapply(w http.ResponseWriter, r *http.Request) {
	h.engine.RequestReapply()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSetTimeScale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scale float64 `json:"scale"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Scale <= 0 || math.IsInf(req.Scale, 0) {
		writeError(w, "scale must be positive", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":   true,
		"timeScale": h.engine.SetTimeScale(req.Scale),
	})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
