package kvstore

import (
	"errors"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// Embedded is an in-process NATS server with JetStream enabled
type Embedded struct {
	*server.Server
}

// StartEmbedded runs a JetStream-enabled server on a random port, keeping its
// data under storeDir
func StartEmbedded(storeDir string) (*Embedded, error) {
	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random available port
		JetStream: true,
		StoreDir:  storeDir,
		NoLog:     true,
		NoSigs:    true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, err
	}

	go ns.Start()

	// Wait for server to be ready
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("embedded NATS server failed to start")
	}
	return &Embedded{Server: ns}, nil
}

// Stop shuts the server down and waits for it to finish
func (e *Embedded) Stop() {
	e.Shutdown()
	e.WaitForShutdown()
}
