package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/history"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/stretchr/testify/assert"
)

type capturingPublisher struct {
	mu     sync.Mutex
	failID int64
	sent   []int64
}

func (p *capturingPublisher) PublishAlert(rec models.DetectionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec.ID == p.failID {
		p.failID = 0 // падаем только один раз
		return errors.New("broker down")
	}
	p.sent = append(p.sent, rec.ID)
	return nil
}

func (p *capturingPublisher) sentIDs() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.sent...)
}

func TestAlertDispatcherPublishesOnlyCritical(t *testing.T) {
	store := history.NewStore()
	store.Append(history.Draft{Kind: models.KindImage, Filename: "a.jpg", Confidence: 0.9})  // critical, id=1
	store.Append(history.Draft{Kind: models.KindImage, Filename: "b.jpg", Confidence: 0.3})  // normal, id=2
	store.Append(history.Draft{Kind: models.KindVideo, Filename: "c.mp4", Confidence: 0.95}) // critical, id=3

	pub := &capturingPublisher{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		StartAlertDispatcher(ctx, store, pub, 5*time.Millisecond)
	}()

	assert.Eventually(t, func() bool {
		ids := pub.sentIDs()
		return len(ids) == 2 && ids[0] == 1 && ids[1] == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestAlertDispatcherRetriesAfterFailure(t *testing.T) {
	store := history.NewStore()
	store.Append(history.Draft{Kind: models.KindImage, Filename: "a.jpg", Confidence: 0.9}) // id=1

	pub := &capturingPublisher{failID: 1}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		StartAlertDispatcher(ctx, store, pub, 5*time.Millisecond)
	}()

	// первая попытка падает, курсор не двигается, вторая доезжает
	assert.Eventually(t, func() bool {
		ids := pub.sentIDs()
		return len(ids) == 1 && ids[0] == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
