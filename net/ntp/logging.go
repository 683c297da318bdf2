package ntp

import (
	"go.uber.org/zap/zapcore"
)

type Time32Marshaler struct {
	T Time32
}

func (m Time32Marshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("Seconds", m.T.Seconds)
	enc.AddUint16("Fraction", m.T.Fraction)
	return nil
}

type Time64Marshaler struct {
	T Time64
}

func (m Time64Marshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("Seconds", m.T.Seconds)
	enc.AddUint32("Fraction", m.T.Fraction)
	return nil
}

type PacketMarshaler struct {
	Pkt *Packet
}

func (m PacketMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("LVM", m.Pkt.LVM)
	enc.AddUint8("Stratum", m.Pkt.Stratum)
	enc.AddInt8("Poll", int8(m.Pkt.Poll))
	enc.AddInt8("Precision", int8(m.Pkt.Precision))
	err := enc.AddObject("RootDelay", Time32Marshaler{T: m.Pkt.RootDelay})
	if err != nil {
		return err
	}
	err = enc.AddObject("RootDispersion", Time32Marshaler{T: m.Pkt.RootDispersion})
	if err != nil {
		return err
	}
	enc.AddBinary("ReferenceID", m.Pkt.ReferenceID[:])
	for _, f := range []struct {
		key string
		t   Time64
	}{
		{"ReferenceTime", m.Pkt.ReferenceTime},
		{"OriginTime", m.Pkt.OriginTime},
		{"ReceiveTime", m.Pkt.ReceiveTime},
		{"TransmitTime", m.Pkt.TransmitTime},
	} {
		err = enc.AddObject(f.key, Time64Marshaler{T: f.t})
		if err != nil {
			return err
		}
	}
	return nil
}
