package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/perp-dex/x/ammoracle/types"
)

// MsgServer defines the ammoracle MsgServer.
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance.
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Observe handles MsgObserve.
func (m *MsgServer) Observe(ctx context.Context, msg *types.MsgObserve) (*types.MsgObserveResponse, error) {
	if msg.Authority != m.keeper.GetAuthority() {
		return nil, types.ErrAccessDenied
	}

	priceSqrt, err := types.NewHighDecimalFromString(msg.PriceSqrt)
	if err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.Observe(sdkCtx, priceSqrt); err != nil {
		return nil, err
	}
	return &types.MsgObserveResponse{}, nil
}

// InitOracle handles MsgInitOracle.
func (m *MsgServer) InitOracle(ctx context.Context, msg *types.MsgInitOracle) (*types.MsgInitOracleResponse, error) {
	if msg.Authority != m.keeper.GetAuthority() {
		return nil, types.ErrAccessDenied
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.InitOracle(sdkCtx, uint16(msg.ObservationsLimit)); err != nil {
		return nil, err
	}
	return &types.MsgInitOracleResponse{}, nil
}
