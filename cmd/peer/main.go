// Command peer runs one Ricart-Agrawala mutual-exclusion participant: a
// gRPC server for inbound coordination, an outbound client to every other
// peer and to the shared Printer, and a Workload Driver that repeatedly
// wants, uses and releases the critical section.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"printmutex/internal/config"
	"printmutex/internal/coordinator"
	"printmutex/internal/transport"
	"printmutex/internal/workload"
)

func main() {
	log := logrus.New()
	entry := logrus.NewEntry(log)

	cfg, err := config.ParsePeer(os.Args[1:])
	if err != nil {
		entry.WithError(err).Fatal("invalid configuration")
	}
	entry = entry.WithField("peer_id", cfg.ID)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		entry.WithField("addr", cfg.ListenAddr).WithError(err).Fatal("failed to bind")
	}

	tr := transport.New(cfg.ID, cfg.PeerAddrs, cfg.PrinterAddr, entry)
	core := coordinator.New(cfg.ID, cfg.PeerAddrs, tr, entry)
	tr.SetCore(core)

	grpcServer := tr.NewGRPCServer()
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			entry.WithError(err).Error("grpc server stopped")
		}
	}()

	entry.WithField("addr", lis.Addr().String()).WithField("peers", cfg.PeerAddrs).Info("peer listening")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := workload.New(cfg.ID, core, tr, entry)
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-done:
		if err != nil {
			entry.WithError(err).Error("workload driver exited")
		}
	}

	entry.Info("shutting down")
	grpcServer.GracefulStop()
}
