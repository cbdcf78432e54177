// Package clock provides the TTL clock collaborator the lists core reads
// expiry timestamps against, pulled out as a seam so tests can control time
// without sleeping.
package clock

import "time"

// Clock returns the current time as Unix seconds, the same resolution the
// lists meta record's timestamp field uses.
type Clock interface {
	Now() uint32
}

// SystemClock is the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint32 {
	return uint32(time.Now().Unix())
}

// Fixed is a Clock that always reports the same instant, for deterministic
// TTL tests.
type Fixed uint32

func (f Fixed) Now() uint32 { return uint32(f) }
