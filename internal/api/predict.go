package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/classifier"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/history"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
)

// PredictHandler скорит одно изображение и дописывает запись в историю
func (h *Handlers) PredictHandler(w http.ResponseWriter, r *http.Request) {
	imageData, filename, contentType, ok := h.readImageUpload(w, r)
	if !ok {
		return
	}

	prob, err := h.classifier.Score(r.Context(), imageData)
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Model not available: %v", err))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing image: %v", err))
		return
	}

	prediction := "Normal"
	if prob > 0.5 {
		prediction = "Shoplifting"
	}

	h.store.Append(history.Draft{
		Kind:       models.KindImage,
		Filename:   filename,
		Prediction: prediction,
		Confidence: prob,
	})

	if h.archive != nil {
		if _, err := h.archive.ArchiveMedia(r.Context(), string(models.KindImage), filename, contentType, bytes.NewReader(imageData), int64(len(imageData))); err != nil {
			log.Printf("Archive image: upload %s: %v", filename, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"shoplifting_probability": math.Round(prob*10000) / 10000,
		"prediction":              prediction,
	})
}

// readImageUpload достаёт изображение из multipart формы; при ошибке сам
// пишет ответ и возвращает ok=false
func (h *Handlers) readImageUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename, contentType string, ok bool) {
	if err := r.ParseMultipartForm(h.defaults.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Could not parse multipart form")
		return nil, "", "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required")
		return nil, "", "", false
	}
	defer file.Close()

	contentType = header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "File must be an image")
		return nil, "", "", false
	}

	data, err = io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read image file")
		return nil, "", "", false
	}

	return data, header.Filename, contentType, true
}
