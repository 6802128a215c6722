package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/analyzer"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/dashboard"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/history"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/gorilla/mux"
)

// Scorer клиент модели: скоринг, визуализация и готовность
type Scorer interface {
	Score(ctx context.Context, image []byte) (float64, error)
	Visualize(ctx context.Context, image []byte, threshold float64) ([]byte, error)
	IsReady() bool
}

// VideoSource открытое видео; Close освобождает временные файлы
type VideoSource interface {
	analyzer.Source
	Close() error
}

// VideoOpener открывает загруженный видеофайл
type VideoOpener interface {
	Open(ctx context.Context, path string) (VideoSource, error)
}

// VideoAnalyzer прогон анализа по открытому видео
type VideoAnalyzer interface {
	Analyze(ctx context.Context, src analyzer.Source, opts analyzer.Options) (models.VideoAnalysisResult, error)
}

// Archiver опциональный архив медиа в объектное хранилище
type Archiver interface {
	ArchiveMedia(ctx context.Context, kind, filename, contentType string, reader io.Reader, size int64) (string, error)
}

// Defaults значения по умолчанию для параметров анализа
type Defaults struct {
	FrameSkip           int
	ConfidenceThreshold float64
	EventGap            float64
	MaxUploadBytes      int64
}

type Handlers struct {
	classifier Scorer
	opener     VideoOpener
	analyzer   VideoAnalyzer
	store      *history.Store
	aggregator *dashboard.Aggregator
	archive    Archiver // nil, если архив не настроен
	defaults   Defaults
}

func NewHandlers(classifier Scorer, opener VideoOpener, a VideoAnalyzer, store *history.Store, aggregator *dashboard.Aggregator, archive Archiver, defaults Defaults) *Handlers {
	if defaults.FrameSkip < 1 {
		defaults.FrameSkip = 5
	}
	if defaults.ConfidenceThreshold == 0 {
		defaults.ConfidenceThreshold = 0.7
	}
	if defaults.MaxUploadBytes == 0 {
		defaults.MaxUploadBytes = 200 << 20
	}
	return &Handlers{
		classifier: classifier,
		opener:     opener,
		analyzer:   a,
		store:      store,
		aggregator: aggregator,
		archive:    archive,
		defaults:   defaults,
	}
}

// Router регистрирует все обработчики
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.RootHandler).Methods("GET")
	r.HandleFunc("/health", h.HealthHandler).Methods("GET")

	r.HandleFunc("/predict", h.PredictHandler).Methods("POST")
	r.HandleFunc("/visualize", h.VisualizeHandler).Methods("POST")
	r.HandleFunc("/analyze_video", h.AnalyzeVideoHandler).Methods("POST")

	r.HandleFunc("/api/dashboard/stats", h.StatsHandler).Methods("GET")
	r.HandleFunc("/api/dashboard/recent", h.RecentHandler).Methods("GET")
	r.HandleFunc("/api/dashboard/activity", h.ActivityHandler).Methods("GET")
	r.HandleFunc("/api/dashboard/detections", h.DetectionsHandler).Methods("GET")

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
