package api

import (
	"context"
	"strconv"

	"github.com/stretchr/testify/mock"
)

type MockScorer struct {
	mock.Mock
	ready bool
}

func (m *MockScorer) Score(ctx context.Context, image []byte) (float64, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockScorer) Visualize(ctx context.Context, image []byte, threshold float64) ([]byte, error) {
	args := m.Called(ctx, image, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockScorer) IsReady() bool {
	return m.ready
}

type MockOpener struct {
	mock.Mock
}

func (m *MockOpener) Open(ctx context.Context, path string) (VideoSource, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(VideoSource), args.Error(1)
}

// fakeVideoSource отдаёт кадры с закодированным индексом и считает вызовы Close
type fakeVideoSource struct {
	fps         float64
	totalFrames int
	closed      int
}

func (s *fakeVideoSource) FPS() float64     { return s.fps }
func (s *fakeVideoSource) TotalFrames() int { return s.totalFrames }

func (s *fakeVideoSource) Frame(_ context.Context, idx int) ([]byte, error) {
	return []byte(strconv.Itoa(idx)), nil
}

func (s *fakeVideoSource) Close() error {
	s.closed++
	return nil
}

// scoreByIndex скорит кадры fakeVideoSource по таблице индекс->вероятность
type scoreByIndex struct {
	scores map[int]float64
	def    float64
	ready  bool
}

func (c *scoreByIndex) Score(_ context.Context, image []byte) (float64, error) {
	idx, _ := strconv.Atoi(string(image))
	if p, ok := c.scores[idx]; ok {
		return p, nil
	}
	return c.def, nil
}

func (c *scoreByIndex) Visualize(_ context.Context, _ []byte, _ float64) ([]byte, error) {
	return nil, nil
}

func (c *scoreByIndex) IsReady() bool { return c.ready }
