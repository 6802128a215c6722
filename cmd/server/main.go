package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/analyzer"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/api"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/classifier"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/config"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/dashboard"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/decoder"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/history"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/kafka"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/s3"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/watchdog"
)

// videoOpener адаптер конкретного декодера под интерфейс API
type videoOpener struct {
	dec *decoder.Decoder
}

func (o videoOpener) Open(ctx context.Context, path string) (api.VideoSource, error) {
	return o.dec.Open(ctx, path)
}

func main() {
	log.Println("Main: init...")

	// Чтение конфига
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Клиент модели
	cls := classifier.NewClient(cfg.Classifier.Endpoint, time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second)

	// Горутина для опроса готовности модели
	prober := watchdog.New(cls, time.Duration(cfg.Classifier.ProbeIntervalSeconds)*time.Second)
	go prober.Start(ctx)

	store := history.NewStore()
	aggregator := dashboard.New(store, prober)

	// Горутина для отправки critical-алертов в Kafka
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		if err != nil {
			log.Fatalf("Failed to create Kafka producer: %v", err)
		}
		defer producer.Close()
		go kafka.StartAlertDispatcher(ctx, store, producer, time.Duration(cfg.Kafka.DispatchIntervalSeconds)*time.Second)
	}

	// Опциональный архив медиа
	var archive api.Archiver
	if cfg.Minio.Endpoint != "" {
		minioClient, err := s3.NewMinioClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket)
		if err != nil {
			log.Fatalf("Failed connect to MinIO: %v", err)
		}
		archive = minioClient
	}

	// Настройка роутера
	handlers := api.NewHandlers(
		cls,
		videoOpener{dec: decoder.New(cfg.FFmpeg.FFmpegBin, cfg.FFmpeg.FFprobeBin)},
		analyzer.New(cls),
		store,
		aggregator,
		archive,
		api.Defaults{
			FrameSkip:           cfg.Analysis.FrameSkip,
			ConfidenceThreshold: cfg.Analysis.ConfidenceThreshold,
			EventGap:            cfg.Analysis.EventGapSeconds,
			MaxUploadBytes:      cfg.Analysis.MaxUploadMB << 20,
		},
	)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.Router(),
	}

	go func() {
		log.Printf("Starting API server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Println("Завершение работы...")
	cancel() // Stop goroutines

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
