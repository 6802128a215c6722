package kafka

import (
	"context"
	"log"
	"time"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/samber/lo"
)

// alertSource хвост истории после известного id
type alertSource interface {
	Since(id int64) []models.DetectionRecord
}

type alertPublisher interface {
	PublishAlert(rec models.DetectionRecord) error
}

// StartAlertDispatcher переливает critical-записи из истории в Kafka.
// Работает как аутбокс: держит id последней обработанной записи и каждый тик
// забирает хвост. Ошибка отправки не двигает курсор, запись уйдёт на
// следующем тике.
func StartAlertDispatcher(ctx context.Context, store alertSource, producer alertPublisher, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastID int64

	for {
		select {
		case <-ctx.Done():
			log.Println("Alert dispatcher stopped")
			return
		case <-ticker.C:
			pending := store.Since(lastID)

			critical := lo.Filter(pending, func(r models.DetectionRecord, _ int) bool {
				return r.Status == models.StatusCritical
			})

			failed := false
			for _, rec := range critical {
				if err := producer.PublishAlert(rec); err != nil {
					log.Printf("Failed to publish alert for record %d: %v", rec.ID, err)
					failed = true
					break
				}
				lastID = rec.ID
			}

			// Двигаем курсор за не-critical хвост только если всё ушло
			if !failed && len(pending) > 0 {
				lastID = pending[len(pending)-1].ID
			}
		}
	}
}
