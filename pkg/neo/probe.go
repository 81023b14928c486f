package neo

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v3/net"
)

// PortProbe checks whether something on this machine listens on a TCP port.
type PortProbe interface {
	Listening(ctx context.Context, port int) (bool, error)
}

// SystemPortProbe inspects the socket table of the host.
type SystemPortProbe struct{}

func (SystemPortProbe) Listening(ctx context.Context, port int) (bool, error) {
	conns, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return false, errors.Wrap(err, "listing tcp connections")
	}
	for _, conn := range conns {
		if conn.Status == "LISTEN" && conn.Laddr.Port == uint32(port) {
			return true, nil
		}
	}
	return false, nil
}
