// Package printersvc implements the Printer (P): a sequential FIFO sink
// that knows nothing of peers or coordination. It is "out of scope" as a
// protocol participant per the specification, but still has to exist as a
// runnable binary for the system to demonstrate mutual exclusion at all.
package printersvc

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"printmutex/internal/printingpb"
)

// minDelay and maxDelay bound the artificial per-job processing delay.
const (
	minDelay = 2 * time.Second
	maxDelay = 3 * time.Second
)

type job struct {
	req  *printingpb.PrintRequest
	resp chan *printingpb.PrintResponse
}

// Server implements printingpb.PrintingServiceServer. Single-threaded
// serving is enforced by a single goroutine draining a job channel:
// concurrent inbound RPCs queue instead of interleaving, which is what
// lets a mutual-exclusion violation surface as overlapping delay windows.
type Server struct {
	log  *logrus.Entry
	jobs chan job
	rng  *rand.Rand

	printingpb.UnimplementedPrintingServiceServer
}

// New builds a Printer server and starts its single consumer goroutine.
// The caller is responsible for registering it on a *grpc.Server.
func New(log *logrus.Entry) *Server {
	s := &Server{
		log:  log,
		jobs: make(chan job),
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	go s.run()
	return s
}

func (s *Server) run() {
	for j := range s.jobs {
		fmt.Printf("[TS: %d] CLIENT %d: %s\n", j.req.LamportTimestamp, j.req.ClientId, j.req.Message)

		delay := minDelay + time.Duration(s.rng.Int63n(int64(maxDelay-minDelay)))
		time.Sleep(delay)

		j.resp <- &printingpb.PrintResponse{
			Success:             true,
			ConfirmationMessage: "ok",
			LamportTimestamp:    j.req.LamportTimestamp,
		}
	}
}

// SendToPrinter accepts one job, serializes it behind every other
// in-flight job, and returns once the simulated print completes.
func (s *Server) SendToPrinter(ctx context.Context, req *printingpb.PrintRequest) (*printingpb.PrintResponse, error) {
	resp := make(chan *printingpb.PrintResponse, 1)
	select {
	case s.jobs <- job{req: req, resp: resp}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-resp:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
