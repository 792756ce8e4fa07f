package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"printmutex/internal/coordinator"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return logrus.NewEntry(l)
}

// startLoopback starts a Transport's gRPC server on 127.0.0.1:0 and
// returns its dialable address plus a stop function.
func startLoopback(t *testing.T, tr *Transport) (addr string, stop func()) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := tr.NewGRPCServer()
	go func() { _ = srv.Serve(lis) }()

	return lis.Addr().String(), func() { srv.Stop() }
}

func TestLoopbackRequestAccessRoundTrip(t *testing.T) {
	trB := New(2, nil, "", testLogger())
	addrB, stopB := startLoopback(t, trB)
	defer stopB()
	coreB := coordinator.New(2, nil, trB, testLogger())
	trB.SetCore(coreB)

	trA := New(1, []string{addrB}, "", testLogger())
	coreA := coordinator.New(1, []string{addrB}, trA, testLogger())
	trA.SetCore(coreA)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	require.NoError(t, coreA.RequestCS(ctx))
	require.Equal(t, coordinator.StateHeld, coreA.State())

	require.NoError(t, coreA.ReleaseCS())
	require.Eventually(t, func() bool {
		return coreA.State() == coordinator.StateReleased
	}, time.Second, 10*time.Millisecond)
}

func TestLoopbackUnreachablePeerDoesNotBlock(t *testing.T) {
	// deadAddr is never listened on.
	deadAddr := "127.0.0.1:1"

	trA := New(1, []string{deadAddr}, "", testLogger())
	coreA := coordinator.New(1, []string{deadAddr}, trA, testLogger())
	trA.SetCore(coreA)

	ctx, cancel := context.WithTimeout(context.Background(), 7*time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, coreA.RequestCS(ctx))
	require.Less(t, time.Since(start), 6*time.Second, "unreachable peer must not block past the rpc timeout")
	require.Equal(t, coordinator.StateHeld, coreA.State())
}

func TestLoopbackDeferredRequestEntersHeldOnlyAfterRelease(t *testing.T) {
	trA := New(1, nil, "", testLogger())
	trB := New(2, nil, "", testLogger())

	addrA, stopA := startLoopback(t, trA)
	defer stopA()
	addrB, stopB := startLoopback(t, trB)
	defer stopB()

	trA.peerAddrs = []string{addrB}
	trB.peerAddrs = []string{addrA}

	coreA := coordinator.New(1, []string{addrB}, trA, testLogger())
	trA.SetCore(coreA)
	coreB := coordinator.New(2, []string{addrA}, trB, testLogger())
	trB.SetCore(coreB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// A enters HELD uncontested first.
	require.NoError(t, coreA.RequestCS(ctx))
	require.Equal(t, coordinator.StateHeld, coreA.State())

	// B's REQUEST now arrives while A is HELD: it must defer, not grant.
	doneB := make(chan struct{})
	go func() {
		_ = coreB.RequestCS(ctx)
		close(doneB)
	}()

	select {
	case <-doneB:
		t.Fatal("peer B entered HELD while peer A still held the resource")
	case <-time.After(200 * time.Millisecond):
	}
	require.Equal(t, coordinator.StateWanted, coreB.State())

	require.NoError(t, coreA.ReleaseCS())
	require.Equal(t, 0, coreA.DeferredLen(), "deferred queue must drain immediately on release")

	select {
	case <-doneB:
	case <-time.After(5 * time.Second):
		t.Fatal("peer B never entered HELD after peer A released")
	}
	require.Equal(t, coordinator.StateHeld, coreB.State())
}
