package cluster

import (
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
)

// DefaultGap максимальный разрыв между детекциями внутри одного события
const DefaultGap = 1.5

// Cluster сворачивает отсортированные по времени детекции в непересекающиеся события.
// Детекция начинает новое событие, если разрыв с предыдущей строго больше gap;
// разрыв ровно в gap секунд продолжает текущее событие.
// Вход обязан быть отсортирован по Timestamp по возрастанию.
func Cluster(detections []models.Detection, gap float64) []models.Event {
	events := []models.Event{}
	if len(detections) == 0 {
		return events
	}

	current := models.Event{Start: detections[0].Timestamp, End: detections[0].Timestamp}
	for _, d := range detections[1:] {
		if d.Timestamp-current.End > gap {
			events = append(events, current)
			current = models.Event{Start: d.Timestamp, End: d.Timestamp}
			continue
		}
		current.End = d.Timestamp
	}

	return append(events, current)
}
