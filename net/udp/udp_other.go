//go:build !unix

package udp

import (
	"net"
)

func setTrafficClass(conn *net.UDPConn, tc int) error {
	return errUnsupportedOperation
}
