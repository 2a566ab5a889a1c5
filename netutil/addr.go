package netutil

import "net"

// AddrString renders a peer address, falling back to unknown when addr is unavailable.
func AddrString(addr net.Addr, unknown string) string {
	switch a := addr.(type) {
	case nil:
		return unknown
	case *net.TCPAddr:
		if a == nil {
			return unknown
		}
	case *net.UnixAddr:
		if a == nil {
			return unknown
		}
	}
	return addr.String()
}
