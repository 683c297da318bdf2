package ntptest_test

import (
	"testing"
	"time"

	beevik "github.com/beevik/ntp"

	"example.com/ntpquery/net/ntp/ntptest"
)

// TestInterop checks the codec against an independent NTP client.
func TestInterop(t *testing.T) {
	s, err := ntptest.NewServer("udp4", ntptest.Respond)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	r, err := beevik.QueryWithOptions(s.Addr.String(), beevik.QueryOptions{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if r.Stratum != 2 {
		t.Errorf("Stratum = %d, want 2", r.Stratum)
	}
	if r.ReferenceID != 0xc0000201 {
		t.Errorf("ReferenceID = %#x, want 0xc0000201", r.ReferenceID)
	}
	if d := time.Since(r.Time); d < -time.Minute || d > time.Minute {
		t.Errorf("Time = %v, too far from now", r.Time)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
