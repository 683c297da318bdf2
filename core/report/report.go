// Package report renders decoded NTP packets for the console.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"example.com/ntpquery/net/ntp"
)

const (
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

	indent = "    "
)

func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// WritePacket writes the fields of pkt, one group per line. Nothing is
// written if the first byte cannot be unpacked.
func WritePacket(w io.Writer, pkt *ntp.Packet) error {
	leap, version, mode, err := pkt.LeapVersionMode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w,
		indent+"leap: %s, version: %d, mode: %s, stratum: %d\n"+
			indent+"poll: %s, precision: %s\n"+
			indent+"root delay: %.9f seconds, root dispersion: %.9f seconds\n"+
			indent+"reference id: %s\n"+
			indent+"reference timestamp: %s\n"+
			indent+"  receive timestamp: %s\n"+
			indent+" transmit timestamp: %s\n",
		leap, version, mode, pkt.Stratum,
		pkt.Poll, pkt.Precision,
		pkt.RootDelay.Float64(), pkt.RootDispersion.Float64(),
		pkt.ReferenceIDString(),
		FormatTime(pkt.ReferenceTime.Time()),
		FormatTime(pkt.ReceiveTime.Time()),
		FormatTime(pkt.TransmitTime.Time()),
	)
	return err
}

// WriteStats summarizes round trip times recorded in microseconds.
func WriteStats(w io.Writer, h *hdrhistogram.Histogram) error {
	if h.TotalCount() == 0 {
		_, err := fmt.Fprintln(w, "round trip: no responses")
		return err
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	_, err := fmt.Fprintf(w,
		"round trip: responses %d, min %v, median %v, p99 %v, max %v\n",
		h.TotalCount(),
		us(h.Min()),
		us(h.ValueAtQuantile(50)),
		us(h.ValueAtQuantile(99)),
		us(h.Max()),
	)
	return err
}
