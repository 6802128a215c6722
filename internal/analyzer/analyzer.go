package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/cluster"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
)

// ErrInvalidArgument некорректные параметры анализа
var ErrInvalidArgument = errors.New("invalid argument")

// Classifier внешняя модель: кадр -> вероятность кражи
type Classifier interface {
	Score(ctx context.Context, image []byte) (float64, error)
}

// Source открытое видео: метаданные плюс доступ к кадрам по индексу
type Source interface {
	FPS() float64
	TotalFrames() int
	Frame(ctx context.Context, idx int) ([]byte, error)
}

// Options параметры одного прогона анализа
type Options struct {
	Filename            string
	FrameSkip           int
	ConfidenceThreshold float64
	EventGap            float64
}

type Analyzer struct {
	classifier Classifier
}

func New(classifier Classifier) *Analyzer {
	return &Analyzer{classifier: classifier}
}

// Analyze сэмплирует кадры видео, прогоняет их через классификатор и
// сворачивает детекции в события. Кадр с индексом i скорится только при
// i % FrameSkip == 0: вызовы классификатора доминируют в латентности.
func (a *Analyzer) Analyze(ctx context.Context, src Source, opts Options) (models.VideoAnalysisResult, error) {
	if opts.FrameSkip < 1 {
		return models.VideoAnalysisResult{}, fmt.Errorf("%w: frame_skip must be >= 1, got %d", ErrInvalidArgument, opts.FrameSkip)
	}
	fps := src.FPS()
	if fps <= 0 {
		return models.VideoAnalysisResult{}, fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidArgument, fps)
	}
	gap := opts.EventGap
	if gap <= 0 {
		gap = cluster.DefaultGap
	}

	totalFrames := src.TotalFrames()
	var detections []models.Detection
	maxConfidence := 0.0

	for idx := 0; idx < totalFrames; idx += opts.FrameSkip {
		if err := ctx.Err(); err != nil {
			return models.VideoAnalysisResult{}, err
		}

		prob := a.scoreFrame(ctx, src, opts.Filename, idx)
		if prob > maxConfidence {
			maxConfidence = prob
		}

		if prob > opts.ConfidenceThreshold {
			detections = append(detections, models.Detection{
				// Округляем один раз при создании; кластеризация дальше
				// работает по уже округлённым значениям
				Timestamp:   round2(float64(idx) / fps),
				FrameIndex:  idx,
				Probability: prob,
			})
		}
	}

	prediction := models.PredictionNormal
	if len(detections) > 0 {
		prediction = models.PredictionShoplifting
	}

	return models.VideoAnalysisResult{
		Filename:          opts.Filename,
		DurationSeconds:   round2(float64(totalFrames) / fps),
		FPS:               fps,
		OverallPrediction: prediction,
		MaxConfidence:     maxConfidence,
		Events:            cluster.Cluster(detections, gap),
		RawDetectionCount: len(detections),
	}, nil
}

// scoreFrame возвращает вероятность для кадра. Ошибка чтения или скоринга
// одного кадра деградирует до вероятности 0.0: один битый кадр не должен
// терять сигнал остального видео.
func (a *Analyzer) scoreFrame(ctx context.Context, src Source, filename string, idx int) float64 {
	frame, err := src.Frame(ctx, idx)
	if err != nil {
		log.Printf("Analyzer %s: read frame %d error: %v", filename, idx, err)
		return 0.0
	}

	prob, err := a.classifier.Score(ctx, frame)
	if err != nil {
		log.Printf("Analyzer %s: score frame %d error: %v", filename, idx, err)
		return 0.0
	}

	return prob
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
