// Package workload implements the Workload Driver (W): the loop that
// repeatedly wants, gets, uses and releases the critical section, standing
// in for "the application" that would otherwise be printing because it has
// something to print, not because a benchmark told it to.
package workload

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"printmutex/internal/coordinator"
)

const (
	minIdle = 2 * time.Second
	maxIdle = 8 * time.Second
)

// Printer is the subset of transport.Transport the driver needs to reach
// the Printer once it holds the critical section.
type Printer interface {
	Print(ctx context.Context, message string, ts int64) (confirmation string, replyTS int64, err error)
}

// Driver runs the want/use/release cycle against a coordinator.Core until
// its context is canceled.
type Driver struct {
	selfID  int32
	core    *coordinator.Core
	printer Printer
	log     *logrus.Entry
	rng     *rand.Rand
}

// New builds a Driver for selfID, coordinating through core and printing
// through printer.
func New(selfID int32, core *coordinator.Core, printer Printer, log *logrus.Entry) *Driver {
	return &Driver{
		selfID:  selfID,
		core:    core,
		printer: printer,
		log:     log.WithField("peer_id", selfID),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run loops: sleep, want the critical section, print once inside it,
// release, repeat. It returns when ctx is canceled or RequestCS fails.
func (d *Driver) Run(ctx context.Context) error {
	iteration := 0
	for {
		idle := minIdle + time.Duration(d.rng.Int63n(int64(maxIdle-minIdle)))
		select {
		case <-time.After(idle):
		case <-ctx.Done():
			return nil
		}

		iteration++
		if err := d.core.RequestCS(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("workload: request_cs: %w", err)
		}

		message := fmt.Sprintf("hello from peer %d (iteration %d)", d.selfID, iteration)
		ts := d.core.Tick()
		confirmation, replyTS, err := d.printer.Print(ctx, message, ts)
		if err != nil {
			d.log.WithError(err).Warn("print failed; releasing anyway")
		} else {
			d.core.Observe(replyTS)
			d.log.WithField("confirmation", confirmation).WithField("ts", replyTS).Info("printed")
		}

		if err := d.core.ReleaseCS(); err != nil {
			return fmt.Errorf("workload: release_cs: %w", err)
		}
	}
}
