package transport

import (
	"context"

	"golang.org/x/sync/errgroup"

	"printmutex/internal/coordinator"
	"printmutex/internal/mutexpb"
)

// BroadcastRequest implements coordinator.Emitter. It fans a REQUEST out
// to every configured peer in parallel using errgroup purely as a join
// barrier: every goroutine swallows its own error after reporting it
// through onResult, so one dead peer never blocks or cancels the others.
func (t *Transport) BroadcastRequest(ctx context.Context, fp coordinator.Fingerprint, requestNumber int32, onResult func(addr string, replyTimestamp int64, err error)) {
	var g errgroup.Group
	for _, addr := range t.peerAddrs {
		addr := addr
		g.Go(func() error {
			client := t.peerClient(addr)
			if client == nil {
				onResult(addr, 0, errInvalidPeerAddr)
				return nil
			}

			callCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
			defer cancel()

			resp, err := client.RequestAccess(callCtx, &mutexpb.AccessRequest{
				ClientId:         t.selfID,
				LamportTimestamp: fp.Timestamp,
				RequestNumber:    requestNumber,
			})
			if err != nil {
				onResult(addr, 0, err)
				return nil
			}
			onResult(addr, resp.LamportTimestamp, nil)
			return nil
		})
	}
	_ = g.Wait()
}

// BroadcastRelease implements coordinator.Emitter. Fire-and-forget: a
// failed RELEASE delivery is logged and otherwise ignored, since the
// deferred-reply mechanism already granted any waiter directly.
func (t *Transport) BroadcastRelease(ts int64) {
	var g errgroup.Group
	for _, addr := range t.peerAddrs {
		addr := addr
		g.Go(func() error {
			client := t.peerClient(addr)
			if client == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
			defer cancel()
			if _, err := client.ReleaseAccess(ctx, &mutexpb.AccessRelease{
				ClientId:         t.selfID,
				LamportTimestamp: ts,
			}); err != nil {
				t.log.WithField("peer", addr).WithError(err).Warn("release broadcast failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}
