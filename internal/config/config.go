// Package config parses the CLI surface for both binaries using kingpin,
// in place of the teacher's hand-rolled flag.Parse wiring.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
)

// defaultPrinterPort is the Printer's default listen port per spec.md §6.2.
const defaultPrinterPort = 50051

// Peer holds the parsed CLI surface for cmd/peer.
type Peer struct {
	ID          int32
	ListenAddr  string
	PrinterAddr string
	PeerAddrs   []string
}

// ParsePeer parses argv (excluding the program name) into a Peer config.
// An empty --clients list means this peer runs solo against the Printer.
func ParsePeer(argv []string) (Peer, error) {
	app := kingpin.New("peer", "Ricart-Agrawala mutual-exclusion peer guarding access to a shared printer.")

	id := app.Flag("id", "this peer's numeric identity, used as the tie-break in fingerprint comparisons").Required().Int32()
	port := app.Flag("port", "port this peer's gRPC server listens on, on all interfaces").Required().Int()
	server := app.Flag("server", "address of the shared Printer's gRPC server").Required().String()
	clients := app.Flag("clients", "comma-separated host:port list of every other peer; empty runs solo").Required().String()

	if _, err := app.Parse(argv); err != nil {
		return Peer{}, fmt.Errorf("config: %w", err)
	}

	return Peer{
		ID:          *id,
		ListenAddr:  net.JoinHostPort("", strconv.Itoa(*port)),
		PrinterAddr: *server,
		PeerAddrs:   splitAddrs(*clients),
	}, nil
}

// Printer holds the parsed CLI surface for cmd/printer.
type Printer struct {
	ListenAddr string
}

// ParsePrinter parses argv (excluding the program name) into a Printer config.
func ParsePrinter(argv []string) (Printer, error) {
	app := kingpin.New("printer", "Single-consumer print sink shared by every peer.")
	port := app.Flag("port", "port the Printer's gRPC server listens on, on all interfaces").Default(strconv.Itoa(defaultPrinterPort)).Int()

	if _, err := app.Parse(argv); err != nil {
		return Printer{}, fmt.Errorf("config: %w", err)
	}
	return Printer{ListenAddr: net.JoinHostPort("", strconv.Itoa(*port))}, nil
}

func splitAddrs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	addrs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			addrs = append(addrs, p)
		}
	}
	return addrs
}
