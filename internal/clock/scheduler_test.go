package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, epoch.Add(115*time.Millisecond), m.Now())
}

func TestManual_StopCancels(t *testing.T) {
	m := NewManual(epoch)
	fired := false

	timer := m.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports already stopped")

	m.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CallbackCanReschedule(t *testing.T) {
	m := NewManual(epoch)
	ticks := 0

	var tick func()
	tick = func() {
		ticks++
		if ticks < 5 {
			m.AfterFunc(50*time.Millisecond, tick)
		}
	}
	m.AfterFunc(50*time.Millisecond, tick)

	m.Advance(time.Second)
	assert.Equal(t, 5, ticks)
}

func TestManual_NowDuringCallback(t *testing.T) {
	m := NewManual(epoch)
	var seen time.Time

	m.AfterFunc(40*time.Millisecond, func() { seen = m.Now() })
	m.Advance(time.Second)

	assert.Equal(t, epoch.Add(40*time.Millisecond), seen)
}

func TestManual_StopAfterFire(t *testing.T) {
	m := NewManual(epoch)
	timer := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)

	assert.False(t, timer.Stop())
}
