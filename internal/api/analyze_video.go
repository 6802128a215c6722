package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/analyzer"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/decoder"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/history"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/google/uuid"
)

// AnalyzeVideoHandler принимает видео, прогоняет анализ и дописывает одну
// запись в историю. Запись публикуется только после полностью успешного
// анализа: прерванный или упавший прогон не оставляет следа в истории.
func (h *Handlers) AnalyzeVideoHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.defaults.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Could not parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Video file is required")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		writeError(w, http.StatusBadRequest, "Video file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		writeError(w, http.StatusBadRequest, "File must be a video")
		return
	}

	frameSkip, threshold, err := h.analysisParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.classifier.IsReady() {
		writeError(w, http.StatusServiceUnavailable, "Model not available")
		return
	}

	// Сохраняем видео во временный файл
	videoPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(header.Filename)))
	tempFile, err := os.Create(videoPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create temp file")
		return
	}
	defer os.Remove(videoPath)
	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		writeError(w, http.StatusInternalServerError, "Failed to save video file")
		return
	}
	tempFile.Close()

	ctx := r.Context()
	src, err := h.opener.Open(ctx, videoPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to decode video: %v", err))
		return
	}
	defer src.Close()

	result, err := h.analyzer.Analyze(ctx, src, analyzer.Options{
		Filename:            header.Filename,
		FrameSkip:           frameSkip,
		ConfidenceThreshold: threshold,
		EventGap:            h.defaults.EventGap,
	})
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, decoder.ErrDecode):
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to decode video: %v", err))
		default:
			// сюда же попадает отмена запроса: запись не публикуется
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing video: %v", err))
		}
		return
	}

	h.store.Append(history.Draft{
		Kind:       models.KindVideo,
		Filename:   header.Filename,
		Prediction: result.OverallPrediction,
		Confidence: result.MaxConfidence,
		Video: &models.VideoExtras{
			DurationSeconds: result.DurationSeconds,
			EventsCount:     len(result.Events),
		},
	})

	h.archiveUpload(ctx, models.KindVideo, header.Filename, contentType, videoPath)

	writeJSON(w, http.StatusOK, result)
}

// analysisParams читает frame_skip и confidence_threshold из query или формы
func (h *Handlers) analysisParams(r *http.Request) (frameSkip int, threshold float64, err error) {
	frameSkip = h.defaults.FrameSkip
	if raw := r.FormValue("frame_skip"); raw != "" {
		frameSkip, err = strconv.Atoi(raw)
		if err != nil || frameSkip < 1 {
			return 0, 0, fmt.Errorf("frame_skip must be a positive integer")
		}
	}

	threshold = h.defaults.ConfidenceThreshold
	if raw := r.FormValue("confidence_threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			return 0, 0, fmt.Errorf("confidence_threshold must be in [0, 1]")
		}
	}

	return frameSkip, threshold, nil
}

// archiveUpload отправляет медиа в объектное хранилище, если оно настроено.
// Ошибка архивации не фейлит запрос
func (h *Handlers) archiveUpload(ctx context.Context, kind models.RecordKind, filename, contentType, path string) {
	if h.archive == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Archive %s: open %s: %v", kind, filename, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Printf("Archive %s: stat %s: %v", kind, filename, err)
		return
	}

	url, err := h.archive.ArchiveMedia(ctx, string(kind), filename, contentType, f, info.Size())
	if err != nil {
		log.Printf("Archive %s: upload %s: %v", kind, filename, err)
		return
	}
	log.Printf("Archive %s: saved %s to %s", kind, filename, url)
}
