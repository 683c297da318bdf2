//go:build unix

package udp

import (
	"net"

	"golang.org/x/sys/unix"
)

func setTrafficClass(conn *net.UDPConn, tc int) error {
	laddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return errUnsupportedOperation
	}
	sconn, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var res struct {
		err error
	}
	err = sconn.Control(func(fd uintptr) {
		if laddr.IP.To4() != nil {
			res.err = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_TOS, tc)
		} else {
			res.err = unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_TCLASS, tc)
		}
	})
	if err != nil {
		return err
	}
	return res.err
}
