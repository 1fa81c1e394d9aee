package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemIsMonotonic(t *testing.T) {
	c := NewSystem()
	c.last.Store(time.Now().Unix() + 3600)

	require.Equal(t, c.last.Load(), c.Now())
}

func TestSystemFollowsWallClock(t *testing.T) {
	c := NewSystem()
	now := time.Now().Unix()
	require.GreaterOrEqual(t, c.Now(), now)
}

func TestManual(t *testing.T) {
	c := NewManual(100)
	require.Equal(t, int64(100), c.Now())

	c.Advance(50)
	require.Equal(t, int64(150), c.Now())

	c.Set(120)
	require.Equal(t, int64(150), c.Now(), "clock can't go backwards")

	c.Set(300)
	require.Equal(t, int64(300), c.Now())
}
