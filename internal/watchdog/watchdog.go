package watchdog

import (
	"context"
	"log"
	"sync"
	"time"
)

const defaultProbeInterval = 15 * time.Second

// offlineAfter столько проваленных проверок подряд переводят сервис в offline
const offlineAfter = 3

// Prober периодически опрашивает /health классификатора и ведёт
// статистику доступности для дашборда
type Prober struct {
	classifier HealthChecker
	interval   time.Duration

	mu          sync.RWMutex
	ready       bool
	consecutive int
	totalProbes int64
	okProbes    int64
}

// HealthChecker проверка готовности модели
type HealthChecker interface {
	Probe(ctx context.Context) (bool, error)
}

// Status снимок состояния доступности модели
type Status struct {
	SystemHealth  string
	ModelsLoaded  bool
	UptimePercent float64
}

func New(classifier HealthChecker, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &Prober{classifier: classifier, interval: interval}
}

func (p *Prober) Start(ctx context.Context) {
	// Первая проверка сразу, чтобы /health не врал до первого тика
	p.probe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Prober stopped")
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *Prober) probe(ctx context.Context) {
	ready, err := p.classifier.Probe(ctx)
	if err != nil {
		log.Printf("Prober: classifier health check failed: %v", err)
	}
	p.Observe(ready)
}

// Observe учитывает результат одной проверки
func (p *Prober) Observe(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalProbes++
	if ready {
		p.okProbes++
		p.consecutive = 0
	} else {
		p.consecutive++
	}
	p.ready = ready
}

// Snapshot текущее состояние для дашборда
func (p *Prober) Snapshot() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	health := "healthy"
	switch {
	case p.consecutive >= offlineAfter:
		health = "offline"
	case !p.ready:
		health = "degraded"
	}

	uptime := 100.0
	if p.totalProbes > 0 {
		uptime = 100 * float64(p.okProbes) / float64(p.totalProbes)
	}

	return Status{
		SystemHealth:  health,
		ModelsLoaded:  p.ready,
		UptimePercent: uptime,
	}
}
