// Command printer runs the shared Printer (P): a single gRPC service that
// every peer sends print jobs to, processed strictly one at a time.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"printmutex/internal/config"
	"printmutex/internal/printersvc"
	"printmutex/internal/printingpb"
)

func main() {
	log := logrus.New()
	entry := logrus.NewEntry(log)

	cfg, err := config.ParsePrinter(os.Args[1:])
	if err != nil {
		entry.WithError(err).Fatal("invalid configuration")
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		entry.WithField("addr", cfg.ListenAddr).WithError(err).Fatal("failed to bind")
	}

	grpcServer := grpc.NewServer()
	printingpb.RegisterPrintingServiceServer(grpcServer, printersvc.New(entry))

	entry.WithField("addr", lis.Addr().String()).Info("printer listening")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			entry.WithError(err).Error("grpc server stopped")
		}
	}()

	<-ctx.Done()
	entry.Info("shutting down")
	grpcServer.GracefulStop()
}
