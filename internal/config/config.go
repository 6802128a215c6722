package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config структура конфига
type Config struct {
	Server struct {
		Addr string `yaml:"addr" env:"SERVER_ADDR"`
	} `yaml:"server"`

	Classifier struct {
		Endpoint             string `yaml:"endpoint" env:"CLASSIFIER_ENDPOINT"`
		TimeoutSeconds       int    `yaml:"timeout_seconds" env:"CLASSIFIER_TIMEOUT_SECONDS"`
		ProbeIntervalSeconds int    `yaml:"probe_interval_seconds" env:"CLASSIFIER_PROBE_INTERVAL_SECONDS"`
	} `yaml:"classifier"`

	Analysis struct {
		FrameSkip           int     `yaml:"frame_skip" env:"ANALYSIS_FRAME_SKIP"`
		ConfidenceThreshold float64 `yaml:"confidence_threshold" env:"ANALYSIS_CONFIDENCE_THRESHOLD"`
		EventGapSeconds     float64 `yaml:"event_gap_seconds" env:"ANALYSIS_EVENT_GAP_SECONDS"`
		MaxUploadMB         int64   `yaml:"max_upload_mb" env:"ANALYSIS_MAX_UPLOAD_MB"`
	} `yaml:"analysis"`

	FFmpeg struct {
		FFmpegBin  string `yaml:"ffmpeg_bin" env:"FFMPEG_BIN"`
		FFprobeBin string `yaml:"ffprobe_bin" env:"FFPROBE_BIN"`
	} `yaml:"ffmpeg"`

	Kafka struct {
		Brokers                 []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
		AlertTopic              string   `yaml:"alert_topic" env:"KAFKA_ALERT_TOPIC"`
		DispatchIntervalSeconds int      `yaml:"dispatch_interval_seconds" env:"KAFKA_DISPATCH_INTERVAL_SECONDS"`
	} `yaml:"kafka"`

	Minio struct {
		Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
		AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
		Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
	} `yaml:"minio"`
}

func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	if filename == "" {
		filename = "local.yaml"
	}
	path := "internal/config/" + filename

	// Читаем YAML, если файл есть; иначе работаем на дефолтах и env
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Парсим переменные окружения с приоритетом
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Server.Addr = ":8002"
	c.Classifier.Endpoint = "http://localhost:8000"
	c.Classifier.TimeoutSeconds = 30
	c.Classifier.ProbeIntervalSeconds = 15
	c.Analysis.FrameSkip = 5
	c.Analysis.ConfidenceThreshold = 0.7
	c.Analysis.EventGapSeconds = 1.5
	c.Analysis.MaxUploadMB = 200
	c.FFmpeg.FFmpegBin = "ffmpeg"
	c.FFmpeg.FFprobeBin = "ffprobe"
	c.Kafka.AlertTopic = "shoplifting-alerts"
	c.Kafka.DispatchIntervalSeconds = 5
}
