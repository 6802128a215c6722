package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrDecode контейнер не читается: нет видеопотока, битый файл и т.п.
var ErrDecode = errors.New("decode error")

// Decoder открывает видео через ffmpeg/ffprobe
type Decoder struct {
	FFmpegBin  string
	FFprobeBin string
}

func New(ffmpegBin, ffprobeBin string) *Decoder {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &Decoder{FFmpegBin: ffmpegBin, FFprobeBin: ffprobeBin}
}

// Video открытое видео: метаданные плюс директория с извлечёнными кадрами.
// Close обязателен на любом пути выхода, он удаляет временные файлы.
type Video struct {
	fps         float64
	totalFrames int
	framesDir   string
}

func (v *Video) FPS() float64     { return v.fps }
func (v *Video) TotalFrames() int { return v.totalFrames }

// Frame возвращает JPEG байты кадра с индексом idx (от нуля)
func (v *Video) Frame(_ context.Context, idx int) ([]byte, error) {
	if idx < 0 || idx >= v.totalFrames {
		return nil, fmt.Errorf("frame index %d out of range [0, %d)", idx, v.totalFrames)
	}
	// ffmpeg нумерует кадры с единицы
	path := filepath.Join(v.framesDir, fmt.Sprintf("frame_%06d.jpg", idx+1))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frame %d: %w", idx, err)
	}
	return data, nil
}

// Close удаляет директорию с кадрами
func (v *Video) Close() error {
	if v.framesDir == "" {
		return nil
	}
	return os.RemoveAll(v.framesDir)
}

type probeResult struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Open читает метаданные видео и извлекает кадры во временную директорию
func (d *Decoder) Open(ctx context.Context, videoPath string) (*Video, error) {
	fps, totalFrames, err := d.probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	framesDir := filepath.Join(os.TempDir(), fmt.Sprintf("frames_%s", uuid.New().String()))
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return nil, fmt.Errorf("create frames directory: %w", err)
	}

	// Извлекаем кадры с помощью ffmpeg
	framePattern := filepath.Join(framesDir, "frame_%06d.jpg")
	cmd := exec.CommandContext(ctx, d.FFmpegBin,
		"-i", videoPath,
		"-q:v", "2", // Качество JPEG
		framePattern,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.RemoveAll(framesDir)
		return nil, fmt.Errorf("%w: ffmpeg failed: %v, stderr: %s", ErrDecode, err, stderr.String())
	}

	files, err := filepath.Glob(filepath.Join(framesDir, "frame_*.jpg"))
	if err != nil {
		os.RemoveAll(framesDir)
		return nil, fmt.Errorf("list frame files: %w", err)
	}
	if len(files) == 0 {
		os.RemoveAll(framesDir)
		return nil, fmt.Errorf("%w: no frames extracted", ErrDecode)
	}

	// ffprobe может не знать nb_frames для некоторых контейнеров
	if totalFrames == 0 || totalFrames > len(files) {
		totalFrames = len(files)
	}

	return &Video{fps: fps, totalFrames: totalFrames, framesDir: framesDir}, nil
}

func (d *Decoder) probe(ctx context.Context, videoPath string) (fps float64, totalFrames int, err error) {
	cmd := exec.CommandContext(ctx, d.FFprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ffprobe failed: %v", ErrDecode, err)
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, 0, fmt.Errorf("%w: parse ffprobe output: %v", ErrDecode, err)
	}

	for _, s := range result.Streams {
		if s.CodecType != "video" {
			continue
		}

		fps = parseFrameRate(s.RFrameRate)
		if fps <= 0 {
			return 0, 0, fmt.Errorf("%w: invalid frame rate %q", ErrDecode, s.RFrameRate)
		}

		totalFrames, _ = strconv.Atoi(s.NbFrames)
		if totalFrames == 0 {
			// Фолбэк через длительность контейнера
			if duration, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
				totalFrames = int(duration * fps)
			}
		}

		return fps, totalFrames, nil
	}

	return 0, 0, fmt.Errorf("%w: no video stream found", ErrDecode)
}

// parseFrameRate разбирает дробь вида "30000/1001"
func parseFrameRate(rate string) float64 {
	parts := strings.SplitN(rate, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
