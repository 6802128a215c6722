package history

import (
	"sort"
	"sync"
	"time"

	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/samber/lo"
)

// Draft запись истории до присвоения id
type Draft struct {
	Kind       models.RecordKind
	Filename   string
	Prediction string
	Confidence float64
	Timestamp  time.Time
	Video      *models.VideoExtras
}

// Store история результатов анализа за время жизни процесса.
// Единственное разделяемое изменяемое состояние сервиса: запись только через
// Append, критическая секция ограничена присвоением id и вставкой. Все чтения
// работают по снапшоту-копии и безопасны при параллельных Append.
type Store struct {
	mu      sync.RWMutex
	records []models.DetectionRecord
}

func NewStore() *Store {
	return &Store{records: make([]models.DetectionRecord, 0, 64)}
}

// Append присваивает следующий id (count+1) и вставляет запись.
// Id строго растут с порядком вставки, без дырок и дублей.
func (s *Store) Append(d Draft) models.DetectionRecord {
	ts := d.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	rec := models.DetectionRecord{
		Kind:       d.Kind,
		Filename:   d.Filename,
		Prediction: d.Prediction,
		Confidence: d.Confidence,
		Timestamp:  ts,
		Status:     models.StatusFor(d.Confidence),
		Video:      d.Video,
	}

	s.mu.Lock()
	rec.ID = int64(len(s.records)) + 1
	s.records = append(s.records, rec)
	s.mu.Unlock()

	return rec
}

// Len текущее количество записей
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// All снапшот всех записей в порядке вставки
func (s *Store) All() []models.DetectionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DetectionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Since записи с id строго больше указанного, в порядке вставки
func (s *Store) Since(id int64) []models.DetectionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id >= int64(len(s.records)) {
		return nil
	}
	out := make([]models.DetectionRecord, int64(len(s.records))-id)
	copy(out, s.records[id:])
	return out
}

// Recent последние записи, свежие первыми
func (s *Store) Recent(limit int) []models.DetectionRecord {
	recent := sortedDesc(s.All())
	if limit < 0 {
		limit = 0
	}
	return lo.Slice(recent, 0, limit)
}

// Page страница записей, свежие первыми. Снапшот берётся один раз, так что
// параллельные Append не двигают границы страницы посреди чтения.
func (s *Store) Page(skip, limit int) (total int, items []models.DetectionRecord) {
	all := sortedDesc(s.All())
	total = len(all)

	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}

	return total, lo.Slice(all, skip, skip+limit)
}

// sortedDesc сортирует по timestamp по убыванию; при равных timestamp
// побеждает больший id, порядок детерминирован и при коллизиях часов
func sortedDesc(records []models.DetectionRecord) []models.DetectionRecord {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].ID > records[j].ID
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records
}
