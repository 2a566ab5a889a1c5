package portfwd

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ParseTargetAddr parses an "ip:port" target. Host names are not resolved.
func ParseTargetAddr(s string) (*net.TCPAddr, error) {
	addr, err := parseIPPort(s)
	if err != nil {
		return nil, fmt.Errorf("%w: target %q: %v", ErrAddressParse, s, err)
	}
	return addr, nil
}

// ParseListenAddr parses a listen address given either as "ip:port" or as a bare port,
// in which case the wildcard address 0.0.0.0 is used.
func ParseListenAddr(s string) (*net.TCPAddr, error) {
	if !strings.Contains(s, ":") {
		port, err := parsePort(s)
		if err != nil {
			return nil, fmt.Errorf("%w: listen %q: %v", ErrAddressParse, s, err)
		}
		return &net.TCPAddr{IP: net.IPv4zero, Port: port}, nil
	}
	addr, err := parseIPPort(s)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %q: %v", ErrAddressParse, s, err)
	}
	return addr, nil
}

func parseIPPort(s string) (*net.TCPAddr, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return nil, err
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil, fmt.Errorf("%q is not an IP address", host)
	}
	port, err := parsePort(portStr)
	if err != nil {
		return nil, err
	}
	return &net.TCPAddr{IP: ip, Port: port}, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return int(port), nil
}
