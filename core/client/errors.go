package client

import (
	"errors"
)

var (
	ErrResolution       = errors.New("failed to resolve host")
	ErrSendIncomplete   = errors.New("failed to send request")
	ErrTimeout          = errors.New("timed out waiting for response")
	ErrResponseTooShort = errors.New("response too short")
)
