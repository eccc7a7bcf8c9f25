package keeper

import (
	"context"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/perp-dex/x/ammoracle/types"
)

// QueryServer defines the ammoracle QueryServer.
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance.
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Observation answers a point query (spec §6's observation(seconds)).
func (q *QueryServer) Observation(ctx context.Context, seconds int64) (types.AccumulatedObservation, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	start := time.Now()
	obs, err := q.keeper.Observation(sdkCtx, seconds)
	q.observe("observation", start, err)
	return obs, err
}

// ObservationIntervals answers a batch of interval queries (spec §6's
// observation_intervals(pairs)).
func (q *QueryServer) ObservationIntervals(ctx context.Context, pairs [][2]int64) ([]types.ObservationInterval, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	start := time.Now()
	intervals, err := q.keeper.ObservationIntervals(sdkCtx, pairs)
	q.observe("observation_intervals", start, err)
	return intervals, err
}

// ObservationsLimit returns the ring's fixed capacity.
func (q *QueryServer) ObservationsLimit(ctx context.Context) (uint16, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.ObservationsLimit(sdkCtx), nil
}

// ObservationsStored returns the count of valid ring slots.
func (q *QueryServer) ObservationsStored(ctx context.Context) (uint16, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return q.keeper.ObservationsStored(sdkCtx), nil
}

// LastObservationIndex returns the ring slot of the newest entry, if any.
// Exposed primarily for testing, per spec §6.
func (q *QueryServer) LastObservationIndex(ctx context.Context) (uint16, bool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	index, ok := q.keeper.LastObservationIndex(sdkCtx)
	return index, ok, nil
}

// OldestObservationTimestamp returns the Unix-second timestamp of the
// oldest retained observation, if any.
func (q *QueryServer) OldestObservationTimestamp(ctx context.Context) (int64, bool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	ts, ok := q.keeper.OldestObservationTimestamp(sdkCtx)
	return ts, ok, nil
}

func (q *QueryServer) observe(query string, start time.Time, err error) {
	if q.keeper.metrics == nil {
		return
	}
	q.keeper.metrics.QueryLatency.WithLabelValues(query).Observe(time.Since(start).Seconds())
	if err != nil {
		q.keeper.metrics.QueryErrorsTotal.WithLabelValues(query).Inc()
	}
}
