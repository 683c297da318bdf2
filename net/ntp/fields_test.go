package ntp_test

import (
	"errors"
	"testing"

	"example.com/ntpquery/net/ntp"
)

func TestLeapFromUint8(t *testing.T) {
	for v := 0; v < 256; v++ {
		l, err := ntp.LeapFromUint8(uint8(v))
		if v <= 3 {
			if err != nil {
				t.Errorf("LeapFromUint8(%d): %v", v, err)
			}
			if uint8(l) != uint8(v) {
				t.Errorf("LeapFromUint8(%d) = %d", v, l)
			}
		} else if !errors.Is(err, ntp.ErrInvalidField) {
			t.Errorf("LeapFromUint8(%d) = %v, want %v", v, err, ntp.ErrInvalidField)
		}
	}
}

func TestModeFromUint8(t *testing.T) {
	for v := 0; v < 8; v++ {
		m, err := ntp.ModeFromUint8(uint8(v))
		if v <= 5 {
			if err != nil {
				t.Errorf("ModeFromUint8(%d): %v", v, err)
			}
			if uint8(m) != uint8(v) {
				t.Errorf("ModeFromUint8(%d) = %d", v, m)
			}
		} else if !errors.Is(err, ntp.ErrInvalidField) {
			t.Errorf("ModeFromUint8(%d) = %v, want %v", v, err, ntp.ErrInvalidField)
		}
	}
}

func TestLeapString(t *testing.T) {
	tests := map[ntp.Leap]string{
		ntp.LeapNoWarning: "No Warning",
		ntp.LeapAddSecond: "Add Second",
		ntp.LeapDelSecond: "Delete Second",
		ntp.LeapNotInSync: "Not In Sync",
	}
	for l, want := range tests {
		if got := l.String(); got != want {
			t.Errorf("Leap(%d).String() = %q, want %q", uint8(l), got, want)
		}
	}
}

func TestModeString(t *testing.T) {
	tests := map[ntp.Mode]string{
		ntp.ModeUnspecified: "Unspecified",
		ntp.ModeActive:      "Active",
		ntp.ModePassive:     "Passive",
		ntp.ModeClient:      "Client",
		ntp.ModeServer:      "Server",
		ntp.ModeBroadcast:   "Broadcast",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", uint8(m), got, want)
		}
	}
}

func TestPollString(t *testing.T) {
	tests := []struct {
		p    ntp.Poll
		want string
	}{
		{6, "64 seconds"},
		{8, "256 seconds"},
		{10, "1024 seconds"},
		{3, "invalid (3)"},
		{5, "invalid (5)"},
		{11, "invalid (11)"},
		{0, "invalid (0)"},
		{-7, "invalid (-7)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Poll(%d).String() = %q, want %q", int8(tt.p), got, tt.want)
		}
	}
}

func TestPrecisionString(t *testing.T) {
	tests := []struct {
		p    ntp.Precision
		want string
	}{
		{0, "1.000000000 seconds"},
		{-1, "0.500000000 seconds"},
		{-8, "0.003906250 seconds"},
		{-20, "0.000000954 seconds"},
		{-30, "0.000000001 seconds"},
		{2, "4.000000000 seconds"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Precision(%d).String() = %q, want %q", int8(tt.p), got, tt.want)
		}
	}
}
