package api

import (
	"net/http"
)

// RootHandler баннер сервиса
func (h *Handlers) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Shoplifting Detection API",
		"status":  "running",
	})
}

// HealthHandler готовность модели
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !h.classifier.IsReady() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":        "unhealthy",
			"models_loaded": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"models_loaded": true,
	})
}
