package types

import (
	"encoding/json"
	"time"
)

// Instant is a wall-clock reading truncated to the second, per spec §3.
// The oracle's clock contract is consumed through sdk.Context.BlockTime();
// Instant wraps that reading so minute/second arithmetic never touches
// time.Time directly.
type Instant struct {
	unixSeconds int64
}

// NewInstant truncates t to the second, which is the oracle's native
// resolution.
func NewInstant(t time.Time) Instant {
	return Instant{unixSeconds: t.Unix()}
}

// InstantFromUnixSeconds builds an Instant from a raw unix-seconds value.
func InstantFromUnixSeconds(seconds int64) Instant {
	return Instant{unixSeconds: seconds}
}

// Minutes returns the integer minutes since the epoch.
func (i Instant) Minutes() int64 {
	return i.unixSeconds / SecondsPerMinute
}

// SecondsMarginal returns the second-offset within the current minute,
// range [0,59].
func (i Instant) SecondsMarginal() int64 {
	return i.unixSeconds % SecondsPerMinute
}

// UnixSeconds returns the raw unix-seconds reading.
func (i Instant) UnixSeconds() int64 {
	return i.unixSeconds
}

// Equal reports whether two Instants refer to the exact same second.
func (i Instant) Equal(other Instant) bool {
	return i.unixSeconds == other.unixSeconds
}

// RoundedToMinutes returns the Instant at the minute boundary at or before i.
func (i Instant) RoundedToMinutes() Instant {
	return Instant{unixSeconds: i.Minutes() * SecondsPerMinute}
}

// MarshalJSON stores the raw unix-seconds reading, so Instants held in the
// persisted OracleMeta survive a round trip through the KVStore.
func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.unixSeconds)
}

func (i *Instant) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &i.unixSeconds)
}
