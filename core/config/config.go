package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"example.com/ntpquery/base/timemath"
	"example.com/ntpquery/net/ntp"
	"example.com/ntpquery/net/udp"
)

const (
	DefaultVersion = ntp.VersionMax
	DefaultTimeout = 2.0
	DefaultPort    = ntp.ServerPort
)

var (
	ErrInvalidVersion = errors.New("illegal NTP version")
	ErrInvalidTimeout = errors.New("illegal timeout")
	ErrInvalidDSCP    = errors.New("illegal DSCP value")
	ErrInvalidPort    = errors.New("illegal port")
)

type Config struct {
	Servers []string `toml:"servers,omitempty"`
	// Version is the NTP version placed in requests, in [1, 4].
	Version int `toml:"version,omitempty"`
	// Timeout bounds each receive wait, in seconds.
	Timeout float64 `toml:"timeout,omitempty"`
	// DSCP is the Differentiated Services Codepoint value to be used by senders of
	// time synchronization packets. Valid values must be in range [0, 63].
	DSCP int `toml:"dscp,omitempty"`
	// Port is the server port every resolved address is queried on.
	Port    uint16 `toml:"port,omitempty"`
	Verbose bool   `toml:"verbose,omitempty"`
}

func Default() Config {
	return Config{
		Version: DefaultVersion,
		Timeout: DefaultTimeout,
		Port:    DefaultPort,
	}
}

// Load reads a TOML file on top of the defaults. Unknown keys are rejected.
func Load(configFile string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return cfg, err
	}
	err = toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Version < ntp.VersionMin || c.Version > ntp.VersionMax {
		return fmt.Errorf("%w `%d`", ErrInvalidVersion, c.Version)
	}
	if !(c.Timeout > 0) {
		return fmt.Errorf("%w `%v`", ErrInvalidTimeout, c.Timeout)
	}
	if c.DSCP < 0 || c.DSCP > udp.MaxDSCP {
		return fmt.Errorf("%w `%d`", ErrInvalidDSCP, c.DSCP)
	}
	if c.Port == 0 {
		return fmt.Errorf("%w `%d`", ErrInvalidPort, c.Port)
	}
	return nil
}

func (c *Config) TimeoutDuration() time.Duration {
	return timemath.Duration(c.Timeout)
}
