package lamport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickMonotonic(t *testing.T) {
	var c Clock
	prev := int64(0)
	for i := 0; i < 100; i++ {
		v := c.Tick()
		require.Greater(t, v, prev)
		prev = v
	}
}

func TestObserveTakesMax(t *testing.T) {
	var c Clock
	c.Tick() // value = 1
	v := c.Observe(10)
	require.Equal(t, int64(11), v)

	v = c.Observe(3)
	require.Equal(t, int64(12), v, "observing a lower timestamp still ticks forward")
}

func TestConcurrentTicksNeverRepeat(t *testing.T) {
	var c Clock
	var wg sync.WaitGroup
	const goroutines = 50
	const perGoroutine = 50

	seen := make(chan int64, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				seen <- c.Tick()
			}
		}()
	}
	wg.Wait()
	close(seen)

	values := make(map[int64]bool)
	for v := range seen {
		require.False(t, values[v], "lamport value %d issued twice", v)
		values[v] = true
	}
	require.Len(t, values, goroutines*perGoroutine)
}
