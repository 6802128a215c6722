package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnavailable модель ещё не загружена или последняя проверка провалилась
var ErrUnavailable = errors.New("classifier unavailable")

// State состояние готовности модели. Ленивая загрузка весов на стороне
// модели означает, что до первой успешной проверки состояние неизвестно.
type State int

const (
	StateUnknown State = iota
	StateReady
	StateUnavailable
)

type Client struct {
	url  string
	http *http.Client

	mu    sync.RWMutex
	state State
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		url:  baseURL,
		http: &http.Client{Timeout: timeout},
	}
}

type predictResponse struct {
	ShopliftingProbability float64 `json:"shoplifting_probability"`
	Prediction             string  `json:"prediction"`
}

type healthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
	Error        string `json:"error"`
}

// Score отправляет изображение JPEG байтами на /predict и возвращает вероятность
func (c *Client) Score(ctx context.Context, imageData []byte) (float64, error) {
	body, contentType, err := buildImageForm(imageData)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/predict", body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		c.setState(StateUnavailable)
		return 0, ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("bad status: %s, error: %s", resp.Status, bodyBytes)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	return pr.ShopliftingProbability, nil
}

// Visualize отправляет изображение на /visualize и возвращает размеченный JPEG
func (c *Client) Visualize(ctx context.Context, imageData []byte, threshold float64) ([]byte, error) {
	body, contentType, err := buildImageForm(imageData)
	if err != nil {
		return nil, err
	}

	url := c.url + "/visualize?threshold=" + strconv.FormatFloat(threshold, 'f', -1, 64)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		c.setState(StateUnavailable)
		return nil, ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status: %s, error: %s", resp.Status, bodyBytes)
	}

	return io.ReadAll(resp.Body)
}

// Probe опрашивает /health модели и обновляет состояние готовности
func (c *Client) Probe(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/health", nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.setState(StateUnavailable)
		return false, err
	}
	defer resp.Body.Close()

	var hr healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		c.setState(StateUnavailable)
		return false, fmt.Errorf("decode health response: %w", err)
	}

	if !hr.ModelsLoaded {
		c.setState(StateUnavailable)
		if hr.Error != "" {
			return false, fmt.Errorf("models not loaded: %s", hr.Error)
		}
		return false, nil
	}

	c.setState(StateReady)
	return true, nil
}

// IsReady последнее известное состояние модели без сетевого вызова
func (c *Client) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateReady
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// buildImageForm собирает multipart form с правильным Content-Type части
func buildImageForm(imageData []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="frame.jpg"`)
	h.Set("Content-Type", "image/jpeg")

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, "", fmt.Errorf("write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
