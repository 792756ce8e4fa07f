package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePeerSolo(t *testing.T) {
	cfg, err := ParsePeer([]string{"--id=1", "--port=50052", "--server=127.0.0.1:50051", "--clients="})
	require.NoError(t, err)
	require.Equal(t, int32(1), cfg.ID)
	require.Equal(t, ":50052", cfg.ListenAddr)
	require.Equal(t, "127.0.0.1:50051", cfg.PrinterAddr)
	require.Empty(t, cfg.PeerAddrs)
}

func TestParsePeerWithClients(t *testing.T) {
	cfg, err := ParsePeer([]string{
		"--id=2",
		"--port=50053",
		"--server=127.0.0.1:50051",
		"--clients=127.0.0.1:6001, 127.0.0.1:6002",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"127.0.0.1:6001", "127.0.0.1:6002"}, cfg.PeerAddrs)
}

func TestParsePeerRequiresID(t *testing.T) {
	_, err := ParsePeer([]string{"--port=50052", "--server=127.0.0.1:50051", "--clients="})
	require.Error(t, err)
}

func TestParsePeerRequiresClients(t *testing.T) {
	_, err := ParsePeer([]string{"--id=1", "--port=50052", "--server=127.0.0.1:50051"})
	require.Error(t, err)
}

func TestParsePrinterDefaults(t *testing.T) {
	cfg, err := ParsePrinter(nil)
	require.NoError(t, err)
	require.Equal(t, ":50051", cfg.ListenAddr)
}
