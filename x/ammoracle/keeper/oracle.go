package keeper

import (
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/perp-dex/x/ammoracle/types"
)

// kvObservationStore adapts a single sdk.Context's KVStore to
// types.ObservationStore, so the pure Oracle state machine in the types
// package never has to know about sdk.Context or the KVStore.
type kvObservationStore struct {
	keeper *Keeper
	ctx    sdk.Context
}

func (s kvObservationStore) GetObservation(index uint16) (types.AccumulatedObservation, bool) {
	return s.keeper.GetObservation(s.ctx, index)
}

func (s kvObservationStore) SetObservation(index uint16, obs types.AccumulatedObservation) {
	s.keeper.SetObservation(s.ctx, index, obs)
}

// loadOracle reconstructs the in-memory Oracle for this block's context:
// its scalar meta plus a store adapter bound to ctx. observationsLimit is
// only used the first time the oracle is ever touched (persisted meta
// takes precedence thereafter).
func (k *Keeper) loadOracle(ctx sdk.Context, observationsLimit uint16) *types.Oracle {
	return &types.Oracle{
		Meta:  k.GetOracleMeta(ctx, observationsLimit),
		Store: kvObservationStore{keeper: k, ctx: ctx},
	}
}

// InitOracle sets the ring's fixed capacity. A no-op if the oracle has
// already been initialized (capacity is fixed at first use, matching
// spec §6's `new(observations_limit)` constructor semantics).
func (k *Keeper) InitOracle(ctx sdk.Context, observationsLimit uint16) error {
	if observationsLimit == 0 {
		return errors.Wrap(types.ErrInvalidObservationsLimit, "observations_limit must be >= 1")
	}
	meta := k.GetOracleMeta(ctx, 0)
	if meta.ObservationsLimit != 0 {
		return nil
	}
	k.SetOracleMeta(ctx, types.NewOracleMeta(observationsLimit))
	return nil
}

// Observe feeds a newly swapped square-root price into the oracle at the
// current block time (spec §4.1, §4.2's observe).
func (k *Keeper) Observe(ctx sdk.Context, priceSqrt types.HighDecimal) error {
	meta := k.GetOracleMeta(ctx, 0)
	if meta.ObservationsLimit == 0 {
		return errors.Wrap(types.ErrInvalidObservationsLimit, "oracle not initialized")
	}

	oracle := k.loadOracle(ctx, meta.ObservationsLimit)
	now := types.NewInstant(ctx.BlockTime())
	if err := oracle.Observe(priceSqrt, now); err != nil {
		return err
	}
	k.SetOracleMeta(ctx, oracle.Meta)

	if k.metrics != nil {
		k.metrics.ObservationsTotal.WithLabelValues().Inc()
		k.metrics.ObservationsStored.WithLabelValues().Set(float64(oracle.Meta.ObservationsStored))
	}
	k.logger.Debug("recorded price_sqrt observation", "price_sqrt", priceSqrt.String(), "block_time", now.UnixSeconds())
	return nil
}

// Observation answers a point query at the given Unix-second timestamp
// (spec §6's observation(seconds)).
func (k *Keeper) Observation(ctx sdk.Context, seconds int64) (types.AccumulatedObservation, error) {
	meta := k.GetOracleMeta(ctx, 0)
	if meta.ObservationsLimit == 0 {
		return types.AccumulatedObservation{}, types.ErrQueryBeforeAnyObservation
	}
	oracle := k.loadOracle(ctx, meta.ObservationsLimit)
	return oracle.Observation(seconds, types.NewInstant(ctx.BlockTime()))
}

// ObservationIntervals answers a batch of interval queries (spec §6's
// observation_intervals(pairs)).
func (k *Keeper) ObservationIntervals(ctx sdk.Context, pairs [][2]int64) ([]types.ObservationInterval, error) {
	meta := k.GetOracleMeta(ctx, 0)
	if meta.ObservationsLimit == 0 {
		return nil, types.ErrQueryBeforeAnyObservation
	}
	oracle := k.loadOracle(ctx, meta.ObservationsLimit)
	return oracle.ObservationIntervals(pairs, types.NewInstant(ctx.BlockTime()))
}

// ObservationsLimit returns the ring's fixed capacity.
func (k *Keeper) ObservationsLimit(ctx sdk.Context) uint16 {
	return k.GetOracleMeta(ctx, 0).ObservationsLimit
}

// ObservationsStored returns the count of valid ring slots.
func (k *Keeper) ObservationsStored(ctx sdk.Context) uint16 {
	return k.GetOracleMeta(ctx, 0).ObservationsStored
}

// LastObservationIndex returns the ring slot of the newest entry, if any.
func (k *Keeper) LastObservationIndex(ctx sdk.Context) (uint16, bool) {
	meta := k.GetOracleMeta(ctx, 0)
	if meta.LastObservationIndex == nil {
		return 0, false
	}
	return *meta.LastObservationIndex, true
}

// OldestObservationTimestamp returns the Unix-second timestamp of the
// oldest retained observation, if any (spec §6's
// oldest_observation_timestamp).
func (k *Keeper) OldestObservationTimestamp(ctx sdk.Context) (int64, bool) {
	meta := k.GetOracleMeta(ctx, 0)
	if meta.ObservationsLimit == 0 {
		return 0, false
	}
	oracle := k.loadOracle(ctx, meta.ObservationsLimit)
	minute, ok := oracle.OldestObservationTimestamp()
	if !ok {
		return 0, false
	}
	return minute * types.SecondsPerMinute, true
}
