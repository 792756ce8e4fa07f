package transport

import (
	"context"

	"printmutex/internal/mutexpb"
)

// RequestAccess is the gRPC entry point for an inbound REQUEST. It blocks
// for as long as the core defers, which is why gRPC's one-goroutine-per-
// call model is load-bearing here: the server must have at least as many
// parallel serving slots as there are peers that could defer concurrently.
func (t *Transport) RequestAccess(ctx context.Context, req *mutexpb.AccessRequest) (*mutexpb.AccessResponse, error) {
	ts, err := t.core.OnRequest(ctx, req.ClientId, req.LamportTimestamp)
	if err != nil {
		return nil, err
	}
	return &mutexpb.AccessResponse{
		AccessGranted:    true,
		LamportTimestamp: ts,
		ResponderId:      t.selfID,
	}, nil
}

// ReleaseAccess is the gRPC entry point for an inbound RELEASE. Advisory
// only: see coordinator.Core.OnRelease.
func (t *Transport) ReleaseAccess(ctx context.Context, req *mutexpb.AccessRelease) (*mutexpb.Empty, error) {
	t.core.OnRelease(req.ClientId, req.LamportTimestamp)
	return &mutexpb.Empty{}, nil
}
