package dashboard

import (
	"sort"
	"time"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/history"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/watchdog"
	"github.com/samber/lo"
)

// Health снимок доступности модели для счётчиков дашборда
type Health interface {
	Snapshot() watchdog.Status
}

// Stats счётчики для шапки дашборда
type Stats struct {
	SystemHealth    string  `json:"systemHealth"`
	ModelsLoaded    bool    `json:"modelsLoaded"`
	TotalDetections int     `json:"totalDetections"`
	Detections24h   int     `json:"detections24h"`
	CriticalAlerts  int     `json:"criticalAlerts"`
	Warnings        int     `json:"warnings"`
	UptimePercent   float64 `json:"uptimePercent"`
}

// ActivityBucket агрегат по одному часу; часы без детекций опускаются
type ActivityBucket struct {
	Time       time.Time `json:"time"`
	Detections int       `json:"detections"`
	Critical   int       `json:"critical"`
}

// Aggregator read-only запросы поверх истории. Ничего не кэширует,
// каждый вызов пересчитывает по свежему снапшоту.
type Aggregator struct {
	store  *history.Store
	health Health
}

func New(store *history.Store, health Health) *Aggregator {
	return &Aggregator{store: store, health: health}
}

// Stats счётчики за скользящие 24 часа плюс состояние модели
func (a *Aggregator) Stats(now time.Time) Stats {
	all := a.store.All()
	cutoff := now.Add(-24 * time.Hour)

	window := lo.Filter(all, func(r models.DetectionRecord, _ int) bool {
		return r.Timestamp.After(cutoff)
	})

	health := a.health.Snapshot()

	return Stats{
		SystemHealth:    health.SystemHealth,
		ModelsLoaded:    health.ModelsLoaded,
		TotalDetections: len(all),
		Detections24h:   len(window),
		CriticalAlerts: lo.CountBy(window, func(r models.DetectionRecord) bool {
			return r.Status == models.StatusCritical
		}),
		Warnings: lo.CountBy(window, func(r models.DetectionRecord) bool {
			return r.Status == models.StatusWarning
		}),
		UptimePercent: health.UptimePercent,
	}
}

// Activity почасовые корзины за последние hours часов, по возрастанию времени
func (a *Aggregator) Activity(now time.Time, hours int) []ActivityBucket {
	cutoff := now.Add(-time.Duration(hours) * time.Hour)

	window := lo.Filter(a.store.All(), func(r models.DetectionRecord, _ int) bool {
		return r.Timestamp.After(cutoff)
	})

	byHour := lo.GroupBy(window, func(r models.DetectionRecord) time.Time {
		return r.Timestamp.Truncate(time.Hour)
	})

	buckets := lo.MapToSlice(byHour, func(hour time.Time, records []models.DetectionRecord) ActivityBucket {
		return ActivityBucket{
			Time:       hour,
			Detections: len(records),
			Critical: lo.CountBy(records, func(r models.DetectionRecord) bool {
				return r.Status == models.StatusCritical
			}),
		}
	})

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Time.Before(buckets[j].Time)
	})

	return buckets
}

// Recent последние записи, свежие первыми
func (a *Aggregator) Recent(limit int) []models.DetectionRecord {
	return a.store.Recent(limit)
}

// Page страница истории со стабильным total
func (a *Aggregator) Page(skip, limit int) (int, []models.DetectionRecord) {
	return a.store.Page(skip, limit)
}
