package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return logrus.NewEntry(l)
}

// fakeEmitter lets tests script reply behavior per peer without a network.
type fakeEmitter struct {
	mu        sync.Mutex
	replies   map[string]int64 // addr -> reply ts; only these addrs get a result
	unreach   map[string]bool  // addrs in replies to report as unreachable instead
	released  []int64
	requested []Fingerprint
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{replies: map[string]int64{}, unreach: map[string]bool{}}
}

func (f *fakeEmitter) BroadcastRequest(ctx context.Context, fp Fingerprint, reqNum int32, onResult func(addr string, replyTS int64, err error)) {
	f.mu.Lock()
	f.requested = append(f.requested, fp)
	replies := make(map[string]int64, len(f.replies))
	for k, v := range f.replies {
		replies[k] = v
	}
	unreach := make(map[string]bool, len(f.unreach))
	for k, v := range f.unreach {
		unreach[k] = v
	}
	f.mu.Unlock()

	var wg sync.WaitGroup
	for addr := range replies {
		addr := addr
		wg.Add(1)
		go func() {
			defer wg.Done()
			if unreach[addr] {
				onResult(addr, 0, context.DeadlineExceeded)
				return
			}
			onResult(addr, replies[addr], nil)
		}()
	}
	wg.Wait()
}

func (f *fakeEmitter) BroadcastRelease(ts int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, ts)
}

func TestRequestCSSoloIsImmediate(t *testing.T) {
	defer goleak.VerifyNone(t)

	emitter := newFakeEmitter()
	c := New(1, nil, emitter, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.RequestCS(ctx))
	require.Equal(t, StateHeld, c.State())
	require.Equal(t, 0, c.OutstandingLen())
}

func TestRequestCSWaitsForAllReplies(t *testing.T) {
	defer goleak.VerifyNone(t)

	emitter := newFakeEmitter()
	emitter.replies["peerA:1"] = 5
	emitter.replies["peerB:2"] = 7

	c := New(1, []string{"peerA:1", "peerB:2"}, emitter, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.RequestCS(ctx))
	require.Equal(t, StateHeld, c.State())
	require.Equal(t, 0, c.OutstandingLen())
}

func TestUnreachablePeerTreatedAsGranted(t *testing.T) {
	defer goleak.VerifyNone(t)

	emitter := newFakeEmitter()
	emitter.replies["peerA:1"] = 5
	emitter.unreach["peerA:1"] = true
	emitter.replies["peerB:2"] = 7

	c := New(1, []string{"peerA:1", "peerB:2"}, emitter, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.RequestCS(ctx))
	require.Equal(t, StateHeld, c.State())
}

func TestReleaseRejectedWhenNotHeld(t *testing.T) {
	emitter := newFakeEmitter()
	c := New(1, nil, emitter, testLogger())

	err := c.ReleaseCS()
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestRequestRejectedWhenAlreadyHeld(t *testing.T) {
	emitter := newFakeEmitter()
	c := New(1, nil, emitter, testLogger())

	ctx := context.Background()
	require.NoError(t, c.RequestCS(ctx))
	require.Equal(t, StateHeld, c.State())

	err := c.RequestCS(ctx)
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestOnRequestGrantsImmediatelyWhenReleased(t *testing.T) {
	emitter := newFakeEmitter()
	c := New(1, nil, emitter, testLogger())

	ts, err := c.OnRequest(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Greater(t, ts, int64(3))
}

func TestOnRequestDefersWhenHeld(t *testing.T) {
	emitter := newFakeEmitter()
	c := New(1, nil, emitter, testLogger())

	require.NoError(t, c.RequestCS(context.Background()))
	require.Equal(t, StateHeld, c.State())

	done := make(chan struct{})
	go func() {
		_, err := c.OnRequest(context.Background(), 2, 100)
		require.NoError(t, err)
		close(done)
	}()

	require.Eventually(t, func() bool { return c.DeferredLen() == 1 }, time.Second, time.Millisecond)

	select {
	case <-done:
		t.Fatal("on_REQUEST returned before release")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, c.ReleaseCS())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("on_REQUEST never unblocked after release")
	}

	require.Equal(t, 0, c.DeferredLen(), "deferred queue must drain on release")
}

func TestOnRequestWantedGrantsLowerFingerprintDefersHigher(t *testing.T) {
	// Build a core stuck in WANTED by using an emitter whose peer never replies.
	hang := &hangingEmitter{unblock: make(chan struct{})}
	defer close(hang.unblock)

	c := New(5, []string{"peerA:1"}, hang, testLogger())

	started := make(chan struct{})
	go func() {
		close(started)
		_ = c.RequestCS(context.Background())
	}()
	<-started
	require.Eventually(t, func() bool { return c.State() == StateWanted }, time.Second, time.Millisecond)

	mine := c.current // same package, white-box access for the test

	// A lower fingerprint than ours must be granted immediately.
	lowerDone := make(chan int64, 1)
	go func() {
		ts, err := c.OnRequest(context.Background(), 1, mine.Timestamp-1)
		require.NoError(t, err)
		lowerDone <- ts
	}()
	select {
	case <-lowerDone:
	case <-time.After(time.Second):
		t.Fatal("lower fingerprint request was not granted immediately")
	}

	// A higher fingerprint than ours must be deferred.
	higherReturned := make(chan struct{})
	go func() {
		_, _ = c.OnRequest(context.Background(), 99, mine.Timestamp+1)
		close(higherReturned)
	}()
	select {
	case <-higherReturned:
		t.Fatal("higher fingerprint request was granted before release")
	case <-time.After(20 * time.Millisecond):
	}
}

// hangingEmitter never resolves a BroadcastRequest until unblock is closed,
// letting tests park a core in WANTED deterministically.
type hangingEmitter struct {
	unblock chan struct{}
}

func (h *hangingEmitter) BroadcastRequest(ctx context.Context, fp Fingerprint, reqNum int32, onResult func(addr string, replyTS int64, err error)) {
	select {
	case <-h.unblock:
	case <-ctx.Done():
	}
}

func (h *hangingEmitter) BroadcastRelease(ts int64) {}
