package ntppkt

import (
	"github.com/google/gopacket"

	"example.com/ntpquery/net/ntp"
)

var LayerTypeNTP = gopacket.RegisterLayerType(
	1123,
	gopacket.LayerTypeMetadata{
		Name:    "NTP",
		Decoder: gopacket.DecodeFunc(decodeNTP),
	},
)

// BaseLayer is a convenience struct which implements the LayerData and
// LayerPayload functions of the Layer interface.
// Copy-pasted from gopacket/layers (we avoid importing this due its massive size)
type BaseLayer struct {
	// Contents is the NTP header.
	Contents []byte
	// Payload holds whatever follows the header, e.g. extension fields,
	// which are not interpreted.
	Payload []byte
}

func (b *BaseLayer) LayerContents() []byte { return b.Contents }

func (b *BaseLayer) LayerPayload() []byte { return b.Payload }

type Packet struct {
	BaseLayer
	ntp.Packet
}

var (
	_ gopacket.DecodingLayer    = (*Packet)(nil)
	_ gopacket.SerializableLayer = (*Packet)(nil)
)

func (p *Packet) LayerType() gopacket.LayerType {
	return LayerTypeNTP
}

func decodeNTP(data []byte, p gopacket.PacketBuilder) error {
	d := &Packet{}
	err := d.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}

	p.AddLayer(d)
	p.SetApplicationLayer(d)

	return nil
}

func (p *Packet) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	data, err := b.PrependBytes(ntp.PacketLen)
	if err != nil {
		return err
	}
	p.Packet.Encode(ntp.NewCursor(data[:ntp.PacketLen]))
	return nil
}

func (p *Packet) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < ntp.PacketLen {
		df.SetTruncated()
		return ntp.ErrUnexpectedPacketSize
	}

	p.BaseLayer = BaseLayer{
		Contents: data[:ntp.PacketLen],
		Payload:  data[ntp.PacketLen:],
	}
	return ntp.DecodePacket(&p.Packet, data)
}

func (p *Packet) CanDecode() gopacket.LayerClass {
	return LayerTypeNTP
}

func (p *Packet) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

func (p *Packet) Payload() []byte {
	return p.BaseLayer.Payload
}
