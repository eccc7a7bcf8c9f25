package types

// Module name and store key, following the x/riverpool and x/perpetual convention.
const (
	ModuleName = "ammoracle"
	StoreKey   = ModuleName
)

// Store key prefixes.
var (
	// ObservationKeyPrefix || index(uint16 big-endian) -> AccumulatedObservation
	ObservationKeyPrefix = []byte{0x01}
	// OracleMetaKeyPrefix -> OracleMeta (scalar fields of the Oracle)
	OracleMetaKeyPrefix = []byte{0x02}
)

// SecondsPerMinute is the width of one stored bucket.
const SecondsPerMinute = 60
