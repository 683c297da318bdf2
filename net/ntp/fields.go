package ntp

import (
	"errors"
	"fmt"
	"math"
)

type Leap uint8

const (
	LeapNoWarning Leap = 0
	LeapAddSecond Leap = 1
	LeapDelSecond Leap = 2
	LeapNotInSync Leap = 3
)

type Mode uint8

const (
	ModeUnspecified Mode = 0
	ModeActive      Mode = 1
	ModePassive     Mode = 2
	ModeClient      Mode = 3
	ModeServer      Mode = 4
	ModeBroadcast   Mode = 5
)

// Poll is the log2 of the poll interval in seconds.
type Poll int8

// Precision is the log2 of the system clock precision in seconds.
type Precision int8

const (
	pollMin = 6
	pollMax = 10
)

var ErrInvalidField = errors.New("invalid field value")

var leapNames = [...]string{
	LeapNoWarning: "No Warning",
	LeapAddSecond: "Add Second",
	LeapDelSecond: "Delete Second",
	LeapNotInSync: "Not In Sync",
}

var modeNames = [...]string{
	ModeUnspecified: "Unspecified",
	ModeActive:      "Active",
	ModePassive:     "Passive",
	ModeClient:      "Client",
	ModeServer:      "Server",
	ModeBroadcast:   "Broadcast",
}

func LeapFromUint8(v uint8) (Leap, error) {
	if int(v) >= len(leapNames) {
		return 0, fmt.Errorf("%w: leap indicator %d", ErrInvalidField, v)
	}
	return Leap(v), nil
}

func (l Leap) String() string {
	if int(l) >= len(leapNames) {
		return fmt.Sprintf("Leap(%d)", uint8(l))
	}
	return leapNames[l]
}

func ModeFromUint8(v uint8) (Mode, error) {
	if int(v) >= len(modeNames) {
		return 0, fmt.Errorf("%w: mode %d", ErrInvalidField, v)
	}
	return Mode(v), nil
}

func (m Mode) String() string {
	if int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// Valid reports whether p lies in the poll range clients are expected to use.
// Values outside the range are still decoded and displayed.
func (p Poll) Valid() bool {
	return pollMin <= p && p <= pollMax
}

func (p Poll) String() string {
	if !p.Valid() {
		return fmt.Sprintf("invalid (%d)", int8(p))
	}
	return fmt.Sprintf("%d seconds", 1<<p)
}

func (p Precision) Seconds() float64 {
	return math.Pow(2, float64(p))
}

func (p Precision) String() string {
	return fmt.Sprintf("%.9f seconds", p.Seconds())
}
