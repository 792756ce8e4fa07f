// Package coordinator implements the Ricart-Agrawala mutual-exclusion
// state machine (D): request/reply/defer driven by Lamport timestamps,
// independent of any transport. It is the hard, interesting subsystem
// described in the specification; every other package exists to drive it
// or to be driven by it.
package coordinator

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"printmutex/internal/lamport"
)

// deferredEntry is one postponed reply: the requester that is waiting,
// and the token that unblocks its in-flight on_REQUEST call once signaled.
type deferredEntry struct {
	requesterID int32
	token       chan struct{}
}

// Core holds the per-peer shared state {state, clock, outstanding-reply
// set, deferred-reply queue, current fingerprint} and implements the
// local operations (RequestCS, ReleaseCS, State, DeferredLen,
// OutstandingLen, Observe, Tick) plus the two inbound handlers
// (OnRequest, OnRelease) of the Mutual-Exclusion Core.
type Core struct {
	selfID    int32
	peerAddrs []string
	clock     *lamport.Clock
	emitter   Emitter
	log       *logrus.Entry

	// mu guards state, current, deferred and requestNumber. It is never
	// held across the suspension-token wait in OnRequest, otherwise the
	// peer holding HELD could never leave it.
	mu            sync.Mutex
	state         State
	current       Fingerprint
	deferred      *list.List
	requestNumber int32

	outstanding outstandingSet
}

// New builds a Core for selfID, coordinating against peerAddrs through
// emitter. peerAddrs is the peer's fixed configuration; it never changes
// for the lifetime of the process (no dynamic membership).
func New(selfID int32, peerAddrs []string, emitter Emitter, log *logrus.Entry) *Core {
	return &Core{
		selfID:    selfID,
		peerAddrs: peerAddrs,
		clock:     &lamport.Clock{},
		emitter:   emitter,
		log:       log.WithField("peer_id", selfID),
		state:     StateReleased,
		deferred:  list.New(),
	}
}

// State reports the current state under the state mutex. Exposed for
// observability and tests; not used for any decision outside this package.
func (c *Core) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DeferredLen reports the number of postponed replies currently queued.
func (c *Core) DeferredLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deferred.Len()
}

// OutstandingLen reports how many peers a pending request still awaits.
func (c *Core) OutstandingLen() int {
	return c.outstanding.len()
}

// Observe folds a timestamp learned from an external event (a Printer
// reply) into this peer's own Lamport clock.
func (c *Core) Observe(ts int64) {
	c.clock.Observe(ts)
}

// Tick advances and returns this peer's own Lamport clock for an event
// that is internal to the holder (stamping the print job) rather than a
// REQUEST, RELEASE or reply. The critical section's mutual exclusion does
// not depend on this value; only the total ordering of logged events does.
func (c *Core) Tick() int64 {
	return c.clock.Tick()
}

// RequestCS blocks until the critical section has been entered (state
// transitions to HELD). Precondition: state == RELEASED.
func (c *Core) RequestCS(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReleased {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: request_cs called while state=%s", ErrInvariantViolation, state)
	}

	ts := c.clock.Tick()
	c.requestNumber++
	reqNum := c.requestNumber
	c.current = Fingerprint{Timestamp: ts, ID: c.selfID}
	c.state = StateWanted
	fp := c.current
	c.mu.Unlock()

	// correlationID ties every log line a single want/use/release cycle
	// produces across this peer's own handlers into one traceable sequence.
	correlationID := uuid.NewString()
	log := c.log.WithField("correlation_id", correlationID)
	log.WithField("ts", ts).Info("RELEASED -> WANTED")

	c.outstanding.reset(c.peerAddrs)
	if len(c.peerAddrs) > 0 {
		go c.broadcastRequest(ctx, fp, reqNum, log)
	}

	select {
	case <-c.outstanding.wait():
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	c.state = StateHeld
	c.mu.Unlock()
	log.WithField("ts", fp.Timestamp).Info("WANTED -> HELD")
	return nil
}

func (c *Core) broadcastRequest(ctx context.Context, fp Fingerprint, reqNum int32, log *logrus.Entry) {
	c.emitter.BroadcastRequest(ctx, fp, reqNum, func(addr string, replyTS int64, err error) {
		if err != nil {
			log.WithField("peer", addr).WithError(err).Warn("peer unreachable; treating request as granted")
		} else {
			c.clock.Observe(replyTS)
		}
		c.outstanding.remove(addr)
	})
}

// ReleaseCS leaves the critical section, grants every deferred requester
// directly, and broadcasts an advisory RELEASE. Precondition: state == HELD.
func (c *Core) ReleaseCS() error {
	c.mu.Lock()
	if c.state != StateHeld {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: release_cs called while state=%s", ErrInvariantViolation, state)
	}

	c.state = StateReleased
	pending := c.deferred
	c.deferred = list.New()
	c.mu.Unlock()

	c.log.Info("HELD -> RELEASED")

	for e := pending.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*deferredEntry)
		close(entry.token)
	}
	c.log.WithField("drained", pending.Len()).Info("deferred queue drained")

	ts := c.clock.Tick()
	go c.emitter.BroadcastRelease(ts)
	return nil
}

// OnRequest implements on_REQUEST: it blocks the caller (an inbound RPC
// handler) until policy permits an affirmative reply, then returns the
// Lamport timestamp to stamp that reply with. OnRequest observes
// requesterTS itself as its first step, before any decision that
// depends on it; the caller need not do so.
func (c *Core) OnRequest(ctx context.Context, requesterID int32, requesterTS int64) (int64, error) {
	c.clock.Observe(requesterTS)
	incoming := Fingerprint{Timestamp: requesterTS, ID: requesterID}

	c.mu.Lock()
	grant := false
	switch c.state {
	case StateReleased:
		grant = true
	case StateHeld:
		grant = false
	case StateWanted:
		grant = incoming.Less(c.current)
	}

	if grant {
		c.mu.Unlock()
		ts := c.clock.Tick()
		c.log.WithField("from", requesterID).Info("grant immediately")
		return ts, nil
	}

	token := make(chan struct{})
	c.deferred.PushBack(&deferredEntry{requesterID: requesterID, token: token})
	c.log.WithField("from", requesterID).Info("defer")
	c.mu.Unlock()

	select {
	case <-token:
		return c.clock.Tick(), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// OnRelease implements on_RELEASE: advisory, clock-propagation only. A
// peer this release unblocks has already been granted via its suspension
// token inside the releasing peer's own process; this handler runs on the
// receiving peer and never touches its own deferred queue.
func (c *Core) OnRelease(requesterID int32, requesterTS int64) {
	c.clock.Observe(requesterTS)
	c.log.WithField("from", requesterID).Debug("release observed")
}
