package server

import (
	"context"
	"fmt"

	"github.com/grandcat/zeroconf"
)

const (
	mdnsService = "_http._tcp"
	mdnsDomain  = "local."
)

// PublishEntry advertises the simulator as instance on port over multicast DNS
// and blocks until ctx is done.
func PublishEntry(ctx context.Context, instance string, port int, info ...string) error {
	server, err := zeroconf.Register(instance, mdnsService, mdnsDomain, port, info, nil)
	if err != nil {
		return fmt.Errorf("registering zeroconf: %w", err)
	}
	defer server.Shutdown()
	<-ctx.Done()
	return nil
}
