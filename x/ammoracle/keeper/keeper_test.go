package keeper

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/openalpha/perp-dex/x/ammoracle/types"
)

const testAuthority = "cosmos1qtxfcauknutrh33geqvw9mxysm42a67mdevhph"

// setupTestKeeper creates a keeper backed by an in-memory IAVL store, the
// same harness pattern used by x/orderbook/keeper's benchmarks.
func setupTestKeeper(tb testing.TB) (*Keeper, sdk.Context) {
	tb.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	k := NewKeeper(cdc, storeKey, testAuthority, log.NewNopLogger())
	return k, ctx
}

func atMinute(minute int64) time.Time {
	return time.Unix(minute*60, 0).UTC()
}

func TestKeeper_ObserveAndQuery(t *testing.T) {
	k, ctx := setupTestKeeper(t)

	if err := k.InitOracle(ctx, 10); err != nil {
		t.Fatalf("InitOracle failed: %v", err)
	}

	price := types.MustNewHighDecimalFromString("1.5")

	ctx = ctx.WithBlockTime(atMinute(1).Add(30 * time.Second))
	if err := k.Observe(ctx, price); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}

	ctx = ctx.WithBlockTime(atMinute(2).Add(1 * time.Second))
	if err := k.Observe(ctx, price); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}

	if stored := k.ObservationsStored(ctx); stored != 1 {
		t.Fatalf("expected 1 stored observation, got %d", stored)
	}

	obs, err := k.Observation(ctx, 2*60)
	if err != nil {
		t.Fatalf("Observation failed: %v", err)
	}
	if obs.Timestamp != 2*60 {
		t.Errorf("expected timestamp 120, got %d", obs.Timestamp)
	}

	index, ok := k.LastObservationIndex(ctx)
	if !ok || index != 0 {
		t.Errorf("expected last_observation_index 0, got %d (ok=%v)", index, ok)
	}

	ts, ok := k.OldestObservationTimestamp(ctx)
	if !ok || ts != 2*60 {
		t.Errorf("expected oldest observation timestamp 120, got %d (ok=%v)", ts, ok)
	}
}

func TestKeeper_ObserveRequiresInit(t *testing.T) {
	k, ctx := setupTestKeeper(t)
	ctx = ctx.WithBlockTime(atMinute(1))

	price := types.MustNewHighDecimalFromString("1.5")
	if err := k.Observe(ctx, price); !errors.Is(err, types.ErrInvalidObservationsLimit) {
		t.Errorf("expected ErrInvalidObservationsLimit, got %v", err)
	}
}

func TestKeeper_InitOracleIsOneShot(t *testing.T) {
	k, ctx := setupTestKeeper(t)

	if err := k.InitOracle(ctx, 5); err != nil {
		t.Fatalf("InitOracle failed: %v", err)
	}
	if err := k.InitOracle(ctx, 50); err != nil {
		t.Fatalf("second InitOracle call failed: %v", err)
	}
	if limit := k.ObservationsLimit(ctx); limit != 5 {
		t.Errorf("expected capacity to stay fixed at 5, got %d", limit)
	}
}

func TestMsgServer_ObserveRejectsWrongAuthority(t *testing.T) {
	k, ctx := setupTestKeeper(t)
	if err := k.InitOracle(ctx, 10); err != nil {
		t.Fatalf("InitOracle failed: %v", err)
	}
	ctx = ctx.WithBlockTime(atMinute(1))

	msgServer := NewMsgServerImpl(k)
	_, err := msgServer.Observe(ctx, &types.MsgObserve{
		Authority: "cosmos1wrongwrongwrongwrongwrongwrongwronglk4ps3",
		PriceSqrt: "1.5",
	})
	if err != types.ErrAccessDenied {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}
