// Package transport implements the Peer Transport (C): a gRPC server
// that accepts inbound coordination concurrently with issuing outbound
// requests, plus lazily-created, reused client stubs to every other peer
// and to the Printer.
package transport

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"printmutex/internal/coordinator"
	"printmutex/internal/mutexpb"
	"printmutex/internal/printingpb"
)

// rpcTimeout is the default per-attempt deadline on every outbound RPC,
// coordination or print.
const rpcTimeout = 5 * time.Second

// Transport wires a coordinator.Core to the network. It implements
// coordinator.Emitter (outbound) and mutexpb.MutualExclusionServiceServer
// (inbound); main wires Core and Transport together after both exist.
type Transport struct {
	selfID      int32
	peerAddrs   []string
	printerAddr string
	log         *logrus.Entry
	core        *coordinator.Core

	mu        sync.Mutex
	peerConns map[string]mutexpb.MutualExclusionServiceClient

	printerMu   sync.Mutex
	printerConn printingpb.PrintingServiceClient

	mutexpb.UnimplementedMutualExclusionServiceServer
}

// New builds a Transport for selfID, fanning coordination out to
// peerAddrs and printing through printerAddr. Call SetCore before
// starting the gRPC server.
func New(selfID int32, peerAddrs []string, printerAddr string, log *logrus.Entry) *Transport {
	return &Transport{
		selfID:      selfID,
		peerAddrs:   peerAddrs,
		printerAddr: printerAddr,
		log:         log.WithField("peer_id", selfID),
		peerConns:   make(map[string]mutexpb.MutualExclusionServiceClient),
	}
}

// SetCore wires the transport to the core whose inbound handlers it
// dispatches to. Breaks the Core/Transport construction cycle: Core needs
// an Emitter (this Transport) and this Transport needs a Core to dispatch
// into, so both are built first and linked second.
func (t *Transport) SetCore(core *coordinator.Core) {
	t.core = core
}

// NewGRPCServer builds a *grpc.Server with MutualExclusionService
// registered against this transport. The caller owns starting and
// stopping it.
func (t *Transport) NewGRPCServer() *grpc.Server {
	s := grpc.NewServer()
	mutexpb.RegisterMutualExclusionServiceServer(s, t)
	return s
}

// peerClient returns the stub for addr, dialing lazily on first use and
// reusing the connection thereafter. No connection pooling beyond this
// one connection per peer.
func (t *Transport) peerClient(addr string) mutexpb.MutualExclusionServiceClient {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.peerConns[addr]; ok {
		return c
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		// grpc.NewClient only fails on a malformed target; the peer list
		// is static configuration, so this indicates a startup bug.
		t.log.WithField("peer", addr).WithError(err).Error("invalid peer address")
		return nil
	}
	client := mutexpb.NewMutualExclusionServiceClient(conn)
	t.peerConns[addr] = client
	return client
}

// printerClient returns the Printer stub, dialing lazily on first use.
func (t *Transport) printerClient() printingpb.PrintingServiceClient {
	t.printerMu.Lock()
	defer t.printerMu.Unlock()

	if t.printerConn != nil {
		return t.printerConn
	}
	conn, err := grpc.NewClient(t.printerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.log.WithError(err).Error("invalid printer address")
		return nil
	}
	t.printerConn = printingpb.NewPrintingServiceClient(conn)
	return t.printerConn
}
