package watchdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProberSnapshot(t *testing.T) {
	p := New(nil, time.Second)

	t.Run("no probes yet reports healthy with full uptime", func(t *testing.T) {
		st := p.Snapshot()
		assert.Equal(t, "healthy", st.SystemHealth)
		assert.False(t, st.ModelsLoaded)
		assert.Equal(t, 100.0, st.UptimePercent)
	})

	t.Run("successful probe", func(t *testing.T) {
		p.Observe(true)
		st := p.Snapshot()
		assert.Equal(t, "healthy", st.SystemHealth)
		assert.True(t, st.ModelsLoaded)
		assert.Equal(t, 100.0, st.UptimePercent)
	})

	t.Run("single failure degrades", func(t *testing.T) {
		p.Observe(false)
		st := p.Snapshot()
		assert.Equal(t, "degraded", st.SystemHealth)
		assert.False(t, st.ModelsLoaded)
		assert.Equal(t, 50.0, st.UptimePercent)
	})

	t.Run("sustained failures go offline", func(t *testing.T) {
		p.Observe(false)
		p.Observe(false)
		st := p.Snapshot()
		assert.Equal(t, "offline", st.SystemHealth)
		assert.InDelta(t, 25.0, st.UptimePercent, 0.001)
	})

	t.Run("recovery resets to healthy", func(t *testing.T) {
		p.Observe(true)
		st := p.Snapshot()
		assert.Equal(t, "healthy", st.SystemHealth)
		assert.True(t, st.ModelsLoaded)
	})
}
