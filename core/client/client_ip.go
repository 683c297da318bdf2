package client

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/gopacket"

	"go.uber.org/zap"

	"example.com/ntpquery/net/ntp"
	"example.com/ntpquery/net/ntppkt"
	"example.com/ntpquery/net/udp"
)

const (
	DefaultTimeout = 2 * time.Second

	maxPacketLen = 1024
)

// IPClient sends single NTP client mode queries over UDP. The zero value
// queries with NTP version 4 and DefaultTimeout.
type IPClient struct {
	Version uint8
	Timeout time.Duration
	DSCP    uint8
	// Histo, if set, records round trip times in microseconds.
	Histo *hdrhistogram.Histogram
}

type Response struct {
	Packet ntp.Packet
	// RTT is the local time between sending the request and reading the reply.
	RTT time.Duration
	// Trailer is the number of bytes received after the NTP header.
	Trailer int
}

func (c *IPClient) version() uint8 {
	if c.Version == 0 {
		return ntp.VersionMax
	}
	return c.Version
}

func (c *IPClient) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Query sends one request to remoteAddr and waits for one reply. The socket
// is owned by the call and closed before it returns. There are no retries.
func (c *IPClient) Query(ctx context.Context, log *zap.Logger, remoteAddr netip.AddrPort) (
	*Response, error) {
	mtrcs := ipMetrics.Load()
	remoteAddr = netip.AddrPortFrom(remoteAddr.Addr().Unmap(), remoteAddr.Port())

	req := ntppkt.Packet{
		Packet: ntp.NewPacket(ntp.LeapNotInSync, c.version(), ntp.ModeClient),
	}
	sbuf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(sbuf, gopacket.SerializeOptions{}, &req)
	if err != nil {
		return nil, err
	}
	reqData := sbuf.Bytes()

	conn, err := net.DialUDP("udp", udp.LocalAddrFor(remoteAddr), net.UDPAddrFromAddrPort(remoteAddr))
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	err = udp.SetDSCP(conn, c.DSCP)
	if err != nil {
		log.Info("failed to set DSCP", zap.Error(err))
	}

	deadline := time.Now().Add(c.timeout())
	ctxDeadline, ok := ctx.Deadline()
	if ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	err = conn.SetDeadline(deadline)
	if err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	cTxTime := time.Now()
	n, err := conn.Write(reqData)
	if err != nil {
		mtrcs.sendFailures.Inc()
		return nil, err
	}
	if n != len(reqData) {
		mtrcs.sendFailures.Inc()
		return nil, ErrSendIncomplete
	}
	mtrcs.reqsSent.Inc()
	log.Debug("sent request",
		zap.Stringer("to", remoteAddr),
		zap.Object("data", ntp.PacketMarshaler{Pkt: &req.Packet}),
	)

	buf := make([]byte, maxPacketLen)
	n, err = conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			mtrcs.timeouts.Inc()
			return nil, ErrTimeout
		}
		return nil, err
	}
	rtt := time.Since(cTxTime)
	mtrcs.pktsReceived.Inc()
	if n < ntp.PacketLen {
		mtrcs.respsShort.Inc()
		return nil, ErrResponseTooShort
	}

	var resp ntppkt.Packet
	err = resp.DecodeFromBytes(buf[:n], gopacket.NilDecodeFeedback)
	if err != nil {
		return nil, err
	}
	mtrcs.respsAccepted.Inc()

	log.Debug("received response",
		zap.Stringer("from", remoteAddr),
		zap.Duration("round trip time", rtt),
		zap.Int("trailer", len(resp.LayerPayload())),
		zap.Object("data", ntp.PacketMarshaler{Pkt: &resp.Packet}),
	)
	err = ntp.ValidateResponseMetadata(&resp.Packet)
	if err != nil {
		log.Debug("response fails sanity check", zap.Stringer("from", remoteAddr), zap.Error(err))
	}

	if c.Histo != nil {
		err = c.Histo.RecordValue(rtt.Microseconds())
		if err != nil {
			log.Debug("failed to record round trip time", zap.Error(err))
		}
	}

	return &Response{
		Packet:  resp.Packet,
		RTT:     rtt,
		Trailer: len(resp.LayerPayload()),
	}, nil
}
