package ntp

import (
	"errors"
)

var (
	errUnexpectedResponse = errors.New("unexpected response structure")
)

// ValidateResponseMetadata reports whether a reply looks like a usable server
// response. It does not reject anything on its own: callers decide what to do
// with a reply that fails the check.
func ValidateResponseMetadata(resp *Packet) error {
	// Based on Ntimed by Poul-Henning Kamp, https://github.com/bsdphk/Ntimed

	if Leap(resp.LeapIndicator()) == LeapNotInSync {
		return errUnexpectedResponse
	}
	if resp.Version() < VersionMin || resp.Version() > VersionMax {
		return errUnexpectedResponse
	}
	if Mode(resp.ModeValue()) != ModeServer {
		return errUnexpectedResponse
	}
	if resp.Stratum == 0 || resp.Stratum >= StratumUnsynchronized {
		return errUnexpectedResponse
	}
	return nil
}
