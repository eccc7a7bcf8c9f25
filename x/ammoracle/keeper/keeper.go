package keeper

import (
	"encoding/binary"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/perp-dex/x/ammoracle/types"
)

// Keeper manages the ammoracle module state: one fixed-capacity
// observation ring plus its scalar bookkeeping, persisted in the module's
// KVStore.
type Keeper struct {
	cdc       codec.BinaryCodec
	storeKey  storetypes.StoreKey
	authority string
	logger    log.Logger
	metrics   *Collector
}

// NewKeeper creates a new ammoracle keeper.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:       cdc,
		storeKey:  storeKey,
		authority: authority,
		logger:    logger.With("module", "x/"+types.ModuleName),
		metrics:   NewCollector(),
	}
}

// Logger returns the module logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address allowed to call
// admin-gated entry points.
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the module's KVStore.
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func observationKey(index uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, index)
	return append(types.ObservationKeyPrefix, buf...)
}

// GetObservation reads one ring slot from the KVStore; kvObservationStore
// binds it to a context to implement types.ObservationStore.
func (k *Keeper) GetObservation(ctx sdk.Context, index uint16) (types.AccumulatedObservation, bool) {
	bz := k.GetStore(ctx).Get(observationKey(index))
	if bz == nil {
		return types.AccumulatedObservation{}, false
	}
	var obs types.AccumulatedObservation
	if err := json.Unmarshal(bz, &obs); err != nil {
		k.logger.Error("failed to unmarshal observation", "index", index, "err", err)
		return types.AccumulatedObservation{}, false
	}
	return obs, true
}

// SetObservation writes one ring slot to the KVStore; kvObservationStore
// binds it to a context to implement types.ObservationStore.
func (k *Keeper) SetObservation(ctx sdk.Context, index uint16, obs types.AccumulatedObservation) {
	bz, err := json.Marshal(obs)
	if err != nil {
		k.logger.Error("failed to marshal observation", "index", index, "err", err)
		return
	}
	k.GetStore(ctx).Set(observationKey(index), bz)
}

// GetOracleMeta loads the oracle's scalar state, or a fresh zero-value
// meta at the given capacity if none has been persisted yet.
func (k *Keeper) GetOracleMeta(ctx sdk.Context, observationsLimit uint16) types.OracleMeta {
	bz := k.GetStore(ctx).Get(types.OracleMetaKeyPrefix)
	if bz == nil {
		return types.NewOracleMeta(observationsLimit)
	}
	var meta types.OracleMeta
	if err := json.Unmarshal(bz, &meta); err != nil {
		k.logger.Error("failed to unmarshal oracle meta", "err", err)
		return types.NewOracleMeta(observationsLimit)
	}
	return meta
}

// SetOracleMeta persists the oracle's scalar state.
func (k *Keeper) SetOracleMeta(ctx sdk.Context, meta types.OracleMeta) {
	bz, err := json.Marshal(meta)
	if err != nil {
		k.logger.Error("failed to marshal oracle meta", "err", err)
		return
	}
	k.GetStore(ctx).Set(types.OracleMetaKeyPrefix, bz)
}
