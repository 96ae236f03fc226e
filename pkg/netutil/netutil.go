// Package netutil holds small network helpers for server startup.
package netutil

import (
	"fmt"
	"net"
)

// ListenWithFallback listens on the preferred port, or on a random free port
// when the preferred one is taken. It returns the listener together with the
// port actually bound, so startup logs can print the real address.
func ListenWithFallback(preferredPort string) (net.Listener, int, error) {
	lis, err := net.Listen("tcp", ":"+preferredPort)
	if err != nil {
		lis, err = net.Listen("tcp", ":0")
		if err != nil {
			return nil, 0, fmt.Errorf("listen on port %s or any free port: %w", preferredPort, err)
		}
	}
	return lis, lis.Addr().(*net.TCPAddr).Port, nil
}
