// Package lamport implements a Lamport logical clock guarded by its own
// mutex, independent of any other peer state.
package lamport

import "sync"

// Clock is a monotonic nonnegative logical counter. The zero value starts
// at 0 and is ready to use.
type Clock struct {
	mu    sync.Mutex
	value int64
}

// Tick increments the counter and returns the new value. Call it
// immediately before stamping any outbound message.
func (c *Clock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
	return c.value
}

// Observe folds a received timestamp into the counter: value = max(value, r) + 1.
// Call it immediately upon receiving any message, before any decision that
// depends on the received timestamp.
func (c *Clock) Observe(r int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r > c.value {
		c.value = r
	}
	c.value++
	return c.value
}

// Value returns the current counter value without mutating it.
func (c *Clock) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
