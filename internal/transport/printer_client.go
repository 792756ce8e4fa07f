package transport

import (
	"context"
	"errors"

	"printmutex/internal/printingpb"
)

var (
	errInvalidPeerAddr = errors.New("transport: invalid peer address")
	// ErrPrinterRejected is returned when the Printer's response does not
	// report success. The driver logs this as a failed iteration and
	// continues; it never propagates past the workload driver.
	ErrPrinterRejected = errors.New("transport: printer reported failure")
)

// Print sends a protected print job to the Printer. Only the Workload
// Driver calls this, and only while the core is HELD.
func (t *Transport) Print(ctx context.Context, message string, ts int64) (confirmation string, replyTS int64, err error) {
	client := t.printerClient()
	if client == nil {
		return "", 0, errInvalidPeerAddr
	}

	callCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	resp, err := client.SendToPrinter(callCtx, &printingpb.PrintRequest{
		ClientId:         t.selfID,
		Message:          message,
		LamportTimestamp: ts,
	})
	if err != nil {
		return "", 0, err
	}
	if !resp.Success {
		return resp.ConfirmationMessage, resp.LamportTimestamp, ErrPrinterRejected
	}
	return resp.ConfirmationMessage, resp.LamportTimestamp, nil
}
