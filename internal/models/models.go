package models

import (
	"time"
)

// Detection одна засэмплированная рамка, чья вероятность превысила порог
type Detection struct {
	Timestamp   float64 `json:"timestamp"`
	FrameIndex  int     `json:"frame_index"`
	Probability float64 `json:"probability"`
}

// Event интервал времени, покрывающий близкие по времени детекции
type Event struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// VideoAnalysisResult итог анализа одного видео
type VideoAnalysisResult struct {
	Filename          string  `json:"filename"`
	DurationSeconds   float64 `json:"duration_seconds"`
	FPS               float64 `json:"fps"`
	OverallPrediction string  `json:"overall_prediction"`
	MaxConfidence     float64 `json:"max_confidence"`
	Events            []Event `json:"events"`
	RawDetectionCount int     `json:"raw_detection_count"`
}

// Предсказания
const (
	PredictionNormal      = "Normal"
	PredictionShoplifting = "Shoplifting Detected"
)

type RecordKind string

const (
	KindImage RecordKind = "image"
	KindVideo RecordKind = "video"
)

type RecordStatus string

const (
	StatusNormal   RecordStatus = "normal"
	StatusWarning  RecordStatus = "warning"
	StatusCritical RecordStatus = "critical"
)

// VideoExtras дополнительные поля для видео-записей
type VideoExtras struct {
	DurationSeconds float64 `json:"duration_seconds"`
	EventsCount     int     `json:"events_count"`
}

// DetectionRecord одна запись истории анализа (картинка или видео)
type DetectionRecord struct {
	ID         int64        `json:"id"`
	Kind       RecordKind   `json:"kind"`
	Filename   string       `json:"filename"`
	Prediction string       `json:"prediction"`
	Confidence float64      `json:"confidence"`
	Timestamp  time.Time    `json:"timestamp"`
	Status     RecordStatus `json:"status"`
	Video      *VideoExtras `json:"video,omitempty"`
}

// StatusFor выводит уровень тревоги из confidence.
// Границы строгие: ровно 0.5 это ещё normal, ровно 0.7 это ещё warning.
func StatusFor(confidence float64) RecordStatus {
	switch {
	case confidence > 0.7:
		return StatusCritical
	case confidence > 0.5:
		return StatusWarning
	default:
		return StatusNormal
	}
}
