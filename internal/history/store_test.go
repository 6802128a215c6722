package history

import (
	"sync"
	"testing"
	"time"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestStoreAppend(t *testing.T) {
	store := NewStore()

	rec := store.Append(Draft{
		Kind:       models.KindImage,
		Filename:   "cam1.jpg",
		Prediction: "Shoplifting",
		Confidence: 0.85,
	})

	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, models.StatusCritical, rec.Status)
	assert.False(t, rec.Timestamp.IsZero())

	rec2 := store.Append(Draft{Kind: models.KindVideo, Filename: "cam2.mp4", Confidence: 0.2})
	assert.Equal(t, int64(2), rec2.ID)
	assert.Equal(t, models.StatusNormal, rec2.Status)
	assert.Equal(t, 2, store.Len())
}

func TestStoreConcurrentAppend(t *testing.T) {
	store := NewStore()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Append(Draft{Kind: models.KindImage, Filename: "x.jpg", Confidence: 0.9})
		}()
	}
	wg.Wait()

	all := store.All()
	assert.Len(t, all, n)

	// id образуют ровно {1..n}, без дырок и дублей
	ids := lo.Map(all, func(r models.DetectionRecord, _ int) int64 { return r.ID })
	seen := lo.SliceToMap(ids, func(id int64) (int64, struct{}) { return id, struct{}{} })
	assert.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.Contains(t, seen, i)
	}
}

func TestStoreReadWhileAppending(t *testing.T) {
	store := NewStore()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			store.Append(Draft{Kind: models.KindImage, Filename: "x.jpg", Confidence: 0.6})
		}
	}()

	for i := 0; i < 200; i++ {
		all := store.All()
		// никакая запись не видна наполовину построенной
		for _, r := range all {
			assert.NotZero(t, r.ID)
			assert.Equal(t, models.StatusWarning, r.Status)
		}
		recent := store.Recent(10)
		assert.LessOrEqual(t, len(recent), 10)
	}
	<-done
}

func TestStoreRecent(t *testing.T) {
	store := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		store.Append(Draft{
			Kind:       models.KindImage,
			Filename:   "x.jpg",
			Confidence: 0.3,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
	}

	recent := store.Recent(3)
	assert.Len(t, recent, 3)
	assert.Equal(t, int64(5), recent[0].ID)
	assert.Equal(t, int64(4), recent[1].ID)
	assert.Equal(t, int64(3), recent[2].ID)

	// limit больше размера отдаёт всё
	assert.Len(t, store.Recent(100), 5)
}

func TestStoreOrderingOnTimestampCollision(t *testing.T) {
	store := NewStore()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		store.Append(Draft{Kind: models.KindImage, Filename: "x.jpg", Confidence: 0.1, Timestamp: ts})
	}

	recent := store.Recent(3)
	assert.Equal(t, []int64{3, 2, 1}, lo.Map(recent, func(r models.DetectionRecord, _ int) int64 { return r.ID }))
}

func TestStorePage(t *testing.T) {
	store := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		store.Append(Draft{Kind: models.KindVideo, Filename: "v.mp4", Confidence: 0.4, Timestamp: base.Add(time.Duration(i) * time.Second)})
	}

	total, items := store.Page(0, 4)
	assert.Equal(t, 10, total)
	assert.Len(t, items, 4)
	assert.Equal(t, int64(10), items[0].ID)

	total, items = store.Page(8, 4)
	assert.Equal(t, 10, total)
	assert.Len(t, items, 2)

	// skip за пределами отдаёт пустую страницу с корректным total
	total, items = store.Page(50, 10)
	assert.Equal(t, 10, total)
	assert.Empty(t, items)

	// отрицательные значения зажимаются
	total, items = store.Page(-5, -1)
	assert.Equal(t, 10, total)
	assert.Empty(t, items)
}

func TestStoreSince(t *testing.T) {
	store := NewStore()
	for i := 0; i < 5; i++ {
		store.Append(Draft{Kind: models.KindImage, Filename: "x.jpg", Confidence: 0.8})
	}

	tail := store.Since(3)
	assert.Len(t, tail, 2)
	assert.Equal(t, int64(4), tail[0].ID)
	assert.Equal(t, int64(5), tail[1].ID)

	assert.Nil(t, store.Since(5))
	assert.Nil(t, store.Since(99))
	assert.Len(t, store.Since(0), 5)
}
