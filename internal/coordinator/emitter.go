package coordinator

import "context"

// Emitter is the outbound half of the Peer Transport (C) as seen by the
// core (D). The core never imports gRPC types; it only drives this
// boundary, so the state machine can be tested without a network.
type Emitter interface {
	// BroadcastRequest fans a REQUEST carrying fp out to every configured
	// peer in parallel and blocks until every peer has been attempted
	// (successfully or not). For each peer it calls onResult exactly
	// once, either with the peer's reply timestamp or with a non-nil err
	// if the peer was unreachable within the per-attempt deadline.
	BroadcastRequest(ctx context.Context, fp Fingerprint, requestNumber int32, onResult func(addr string, replyTimestamp int64, err error))

	// BroadcastRelease fans a RELEASE stamped with ts out to every
	// configured peer. It is fire-and-forget: correctness never depends
	// on it, so failures are logged by the implementation and never
	// reported back to the core.
	BroadcastRelease(ts int64)
}
