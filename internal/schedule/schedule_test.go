package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual(t *testing.T) {
	t.Run("tasks run in due order on a virtual clock", func(t *testing.T) {
		// GIVEN tasks scheduled out of order
		m := NewManual()
		var order []string
		m.After(2*time.Second, func() { order = append(order, "slow") })
		m.After(time.Second, func() { order = append(order, "fast") })
		m.After(time.Second, func() { order = append(order, "fast-second") })

		// WHEN the queue is drained
		n := m.Drain(0)

		// THEN ties keep scheduling order and the clock lands on the last due time
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"fast", "fast-second", "slow"}, order)
		assert.Equal(t, 2*time.Second, m.Now())
	})

	t.Run("callbacks may schedule more work", func(t *testing.T) {
		m := NewManual()
		runs := 0
		var tick func()
		tick = func() {
			runs++
			if runs < 5 {
				m.After(time.Second, tick)
			}
		}
		m.After(0, tick)
		m.Drain(0)
		assert.Equal(t, 5, runs)
		assert.Equal(t, 4*time.Second, m.Now())
	})

	t.Run("cancelled tasks never run", func(t *testing.T) {
		m := NewManual()
		ran := false
		task := m.After(time.Second, func() { ran = true })
		assert.True(t, task.Cancel())
		assert.False(t, task.Cancel())
		assert.Equal(t, 0, m.Drain(0))
		assert.False(t, ran)
	})

	t.Run("drain honours its limit", func(t *testing.T) {
		m := NewManual()
		for i := 0; i < 10; i++ {
			m.After(0, func() {})
		}
		assert.Equal(t, 4, m.Drain(4))
		assert.Equal(t, 6, m.Pending())
	})
}

func TestGroup(t *testing.T) {
	t.Run("cancel all stops every pending task", func(t *testing.T) {
		m := NewManual()
		g := NewGroup(m)
		ran := 0
		for i := 0; i < 3; i++ {
			g.After(time.Second, func() { ran++ })
		}
		require.Equal(t, 3, g.Pending())

		assert.Equal(t, 3, g.CancelAll())
		m.Drain(0)
		assert.Equal(t, 0, ran)
		assert.Equal(t, 0, g.Pending())
	})

	t.Run("finished tasks leave the group", func(t *testing.T) {
		m := NewManual()
		g := NewGroup(m)
		task := g.After(0, func() {})
		m.Drain(0)
		assert.Equal(t, 0, g.Pending())
		assert.False(t, task.Cancel())
	})

	t.Run("works on real timers", func(t *testing.T) {
		g := NewGroup(NewTimer())
		var fired atomic.Int32
		done := make(chan struct{})
		g.After(time.Millisecond, func() {
			fired.Add(1)
			close(done)
		})
		cancelled := g.After(time.Hour, func() { fired.Add(1) })

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timer task never fired")
		}
		assert.True(t, cancelled.Cancel())
		assert.Equal(t, int32(1), fired.Load())
	})
}
