// Package ntptest provides an in-process NTP responder for tests.
package ntptest

import (
	"net"
	"net/netip"
	"sync"
	"time"

	"example.com/ntpquery/net/ntp"
)

// Handler returns the reply datagram for a request. A nil reply sends nothing.
type Handler func(req *ntp.Packet, rxt time.Time) []byte

type Server struct {
	Addr netip.AddrPort

	conn *net.UDPConn
	wg   sync.WaitGroup
}

var serverRefID = [4]byte{192, 0, 2, 1}

// NewServer starts a responder on an ephemeral loopback port of the given
// network ("udp4" or "udp6").
func NewServer(network string, h Handler) (*Server, error) {
	ip := net.IPv4(127, 0, 0, 1)
	if network == "udp6" {
		ip = net.IPv6loopback
	}
	conn, err := net.ListenUDP(network, &net.UDPAddr{IP: ip})
	if err != nil {
		return nil, err
	}
	s := &Server{
		Addr: conn.LocalAddr().(*net.UDPAddr).AddrPort(),
		conn: conn,
	}
	s.wg.Add(1)
	go s.serve(h)
	return s, nil
}

func (s *Server) serve(h Handler) {
	defer s.wg.Done()
	buf := make([]byte, 2048)
	for {
		n, srcAddr, err := s.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			return
		}
		rxt := time.Now()
		var req ntp.Packet
		if ntp.DecodePacket(&req, buf[:n]) != nil {
			continue
		}
		resp := h(&req, rxt)
		if resp == nil {
			continue
		}
		_, _ = s.conn.WriteToUDPAddrPort(resp, srcAddr)
	}
}

func (s *Server) Close() {
	_ = s.conn.Close()
	s.wg.Wait()
}

// Reply builds a well-formed stratum 2 server response to req.
func Reply(req *ntp.Packet, rxt time.Time) ntp.Packet {
	resp := ntp.Packet{}
	resp.SetLeap(ntp.LeapNoWarning)
	resp.SetVersion(req.Version())
	resp.SetMode(ntp.ModeServer)
	resp.Stratum = 2
	resp.Poll = req.Poll
	resp.Precision = -20
	resp.RootDelay = ntp.Time32{Seconds: 0, Fraction: 1 << 12}
	resp.RootDispersion = ntp.Time32{Seconds: 0, Fraction: 10}
	resp.ReferenceID = serverRefID
	resp.ReferenceTime = ntp.Time64FromTime(rxt.Add(-time.Minute))
	resp.OriginTime = req.TransmitTime
	resp.ReceiveTime = ntp.Time64FromTime(rxt)
	resp.TransmitTime = ntp.Time64FromTime(time.Now())
	return resp
}

// Respond answers every request with Reply.
func Respond(req *ntp.Packet, rxt time.Time) []byte {
	return Encode(Reply(req, rxt))
}

// RespondWith answers every request with a copy of resp.
func RespondWith(resp ntp.Packet) Handler {
	return func(*ntp.Packet, time.Time) []byte {
		return Encode(resp)
	}
}

// Truncated answers with the first n bytes of Reply.
func Truncated(n int) Handler {
	return func(req *ntp.Packet, rxt time.Time) []byte {
		return Respond(req, rxt)[:n]
	}
}

// Silent never answers.
func Silent(*ntp.Packet, time.Time) []byte {
	return nil
}

func Encode(p ntp.Packet) []byte {
	var b []byte
	ntp.EncodePacket(&b, &p)
	return b
}
