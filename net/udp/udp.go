package udp

import (
	"errors"
	"net"
	"net/netip"
)

const (
	// MaxDSCP is the largest Differentiated Services Codepoint.
	MaxDSCP = 63
)

var (
	errUnsupportedOperation = errors.New("unsupported operation")
	errInvalidDSCP          = errors.New("invalid DSCP value")
)

// LocalAddrFor returns the wildcard address with an ephemeral port in the
// address family of remoteAddr.
func LocalAddrFor(remoteAddr netip.AddrPort) *net.UDPAddr {
	if remoteAddr.Addr().Unmap().Is4() {
		return &net.UDPAddr{IP: net.IPv4zero}
	}
	return &net.UDPAddr{IP: net.IPv6unspecified}
}

// SetDSCP marks outgoing packets of conn with the given codepoint. A zero
// codepoint leaves the socket unchanged.
func SetDSCP(conn *net.UDPConn, dscp uint8) error {
	if dscp > MaxDSCP {
		return errInvalidDSCP
	}
	if dscp == 0 {
		return nil
	}
	return setTrafficClass(conn, int(dscp<<2))
}
