package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/classifier"
)

// VisualizeHandler проксирует изображение в модель и возвращает размеченный
// JPEG. В историю ничего не пишет: визуализация это не результат анализа
func (h *Handlers) VisualizeHandler(w http.ResponseWriter, r *http.Request) {
	imageData, _, _, ok := h.readImageUpload(w, r)
	if !ok {
		return
	}

	threshold := 0.5
	if raw := r.FormValue("threshold"); raw != "" {
		var err error
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			writeError(w, http.StatusBadRequest, "threshold must be in [0, 1]")
			return
		}
	}

	annotated, err := h.classifier.Visualize(r.Context(), imageData, threshold)
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Model not available: %v", err))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(annotated)
}
