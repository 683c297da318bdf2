package ntp

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Seconds from Unix epoch (1970) to NTP epoch (1900), including 17 leap days
	epoch int64 = -2208988800

	nanosecondsPerSecond int64 = 1e9

	ServerPort = 123

	PacketLen = 48

	VersionMin = 1
	VersionMax = 4

	StratumUnsynchronized = 16
)

// Time32 is the NTP short format: 16 bits of seconds and 16 bits of fraction.
type Time32 struct {
	Seconds  uint16
	Fraction uint16
}

// Time64 is the NTP timestamp format: 32 bits of seconds since the NTP epoch
// (1900-01-01T00:00:00Z) and 32 bits of fraction.
type Time64 struct {
	Seconds  uint32
	Fraction uint32
}

type Packet struct {
	LVM            uint8
	Stratum        uint8
	Poll           Poll
	Precision      Precision
	RootDelay      Time32
	RootDispersion Time32
	ReferenceID    [4]byte
	ReferenceTime  Time64
	OriginTime     Time64
	ReceiveTime    Time64
	TransmitTime   Time64
}

var (
	ErrUnexpectedPacketSize = errors.New("unexpected packet size")
)

func (t Time32) Float64() float64 {
	return float64(t.Seconds) + float64(t.Fraction)/65536.0
}

func DecodeTime32(c *Cursor) Time32 {
	return Time32{
		Seconds:  c.Uint16(),
		Fraction: c.Uint16(),
	}
}

func (t Time32) Encode(c *Cursor) {
	c.PutUint16(t.Seconds)
	c.PutUint16(t.Fraction)
}

// Time converts t to an absolute time without era resolution. The fraction
// is scaled as Fraction*1e9/2^32 in integer arithmetic, i.e. Fraction/4.294967296
// truncated, so the nanosecond part stays below one second.
func (t Time64) Time() time.Time {
	nsec := int64(t.Fraction) * nanosecondsPerSecond >> 32
	return time.Unix(epoch+int64(t.Seconds), nsec).UTC()
}

func Time64FromTime(t time.Time) Time64 {
	return Time64{
		Seconds: uint32(
			t.Unix() - epoch),
		Fraction: uint32(
			int64(t.Nanosecond()) << 32 / nanosecondsPerSecond),
	}
}

func DecodeTime64(c *Cursor) Time64 {
	return Time64{
		Seconds:  c.Uint32(),
		Fraction: c.Uint32(),
	}
}

func (t Time64) Encode(c *Cursor) {
	c.PutUint32(t.Seconds)
	c.PutUint32(t.Fraction)
}

func (t Time64) Before(u Time64) bool {
	return t.Seconds < u.Seconds ||
		t.Seconds == u.Seconds && t.Fraction < u.Fraction
}

func (t Time64) After(u Time64) bool {
	return t.Seconds > u.Seconds ||
		t.Seconds == u.Seconds && t.Fraction > u.Fraction
}

// NewPacket returns an outbound packet with the given leap indicator, version
// and mode, stratum 16 and every other field zero.
func NewPacket(leap Leap, version uint8, mode Mode) Packet {
	return Packet{
		LVM:     uint8(leap)<<6 | version<<3 | uint8(mode),
		Stratum: StratumUnsynchronized,
	}
}

// Decode reads the header fields in wire order. The caller guarantees that
// at least PacketLen bytes remain.
func (p *Packet) Decode(c *Cursor) {
	p.LVM = c.Uint8()
	p.Stratum = c.Uint8()
	p.Poll = Poll(c.Int8())
	p.Precision = Precision(c.Int8())
	p.RootDelay = DecodeTime32(c)
	p.RootDispersion = DecodeTime32(c)
	c.Read(p.ReferenceID[:])
	p.ReferenceTime = DecodeTime64(c)
	p.OriginTime = DecodeTime64(c)
	p.ReceiveTime = DecodeTime64(c)
	p.TransmitTime = DecodeTime64(c)
}

func (p *Packet) Encode(c *Cursor) {
	c.PutUint8(p.LVM)
	c.PutUint8(p.Stratum)
	c.PutInt8(int8(p.Poll))
	c.PutInt8(int8(p.Precision))
	p.RootDelay.Encode(c)
	p.RootDispersion.Encode(c)
	c.Write(p.ReferenceID[:])
	p.ReferenceTime.Encode(c)
	p.OriginTime.Encode(c)
	p.ReceiveTime.Encode(c)
	p.TransmitTime.Encode(c)
}

func EncodePacket(b *[]byte, pkt *Packet) {
	if cap(*b) < PacketLen {
		*b = make([]byte, PacketLen)
	} else {
		*b = (*b)[:PacketLen]
	}
	pkt.Encode(NewCursor(*b))
}

// DecodePacket decodes the first PacketLen bytes of b. Anything beyond the
// header is left untouched.
func DecodePacket(pkt *Packet, b []byte) error {
	if len(b) < PacketLen {
		return ErrUnexpectedPacketSize
	}
	pkt.Decode(NewCursor(b[:PacketLen]))
	return nil
}

func (p *Packet) LeapIndicator() uint8 {
	return (p.LVM >> 6) & 0b0000_0011
}

func (p *Packet) SetLeap(l Leap) {
	if uint8(l)&0b0000_0011 != uint8(l) {
		panic("unexpected NTP leap indicator value")
	}
	p.LVM = (p.LVM & 0b0011_1111) | (uint8(l) << 6)
}

func (p *Packet) Version() uint8 {
	return (p.LVM >> 3) & 0b0000_0111
}

func (p *Packet) SetVersion(v uint8) {
	if v&0b0000_0111 != v {
		panic("unexpected NTP version value")
	}
	p.LVM = (p.LVM & 0b_1100_0111) | (v << 3)
}

func (p *Packet) ModeValue() uint8 {
	return p.LVM & 0b0000_0111
}

func (p *Packet) SetMode(m Mode) {
	if uint8(m)&0b0000_0111 != uint8(m) {
		panic("unexpected NTP mode value")
	}
	p.LVM = (p.LVM & 0b1111_1000) | uint8(m)
}

// LeapVersionMode unpacks the combined first byte. The leap indicator cannot
// be out of range after masking, but modes 6 and 7 are rejected with
// ErrInvalidField.
func (p *Packet) LeapVersionMode() (Leap, uint8, Mode, error) {
	l, err := LeapFromUint8(p.LeapIndicator())
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := ModeFromUint8(p.ModeValue())
	if err != nil {
		return 0, 0, 0, err
	}
	return l, p.Version(), m, nil
}

// ReferenceIDString renders the reference ID as an IPv4 address for
// secondary servers and as raw characters otherwise.
func (p *Packet) ReferenceIDString() string {
	id := p.ReferenceID
	if p.Stratum > 1 {
		return fmt.Sprintf("%d.%d.%d.%d", id[0], id[1], id[2], id[3])
	}
	var s []rune
	for _, b := range id {
		s = append(s, rune(b))
	}
	return string(s)
}
