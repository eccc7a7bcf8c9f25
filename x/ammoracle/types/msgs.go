package types

import (
	"fmt"

	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers this module's Msg implementations with the
// app-wide interface registry, mirroring the package-level registration
// function every other x/* module in this repository exposes for app.go
// to call directly (alongside AppModuleBasic.RegisterInterfaces, used by
// the module manager).
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgObserve{},
		&MsgInitOracle{},
	)
}

const (
	TypeMsgObserve    = "observe"
	TypeMsgInitOracle = "init_oracle"
)

// MsgObserve feeds a newly swapped square-root price into the oracle.
// Admin-gated: Authority must match the keeper's configured authority
// (spec §6's observe is "admin-gated", enforced here the way the hook
// wrapper would in the original design — the core itself never
// authenticates, but this module's entry point stands in for that
// wrapper).
type MsgObserve struct {
	Authority string `json:"authority"`
	PriceSqrt string `json:"price_sqrt"`
}

func (msg MsgObserve) Route() string { return ModuleName }
func (msg MsgObserve) Type() string  { return TypeMsgObserve }

func (msg MsgObserve) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := NewHighDecimalFromString(msg.PriceSqrt); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPriceSqrt, err)
	}
	return nil
}

func (msg MsgObserve) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

func (*MsgObserve) ProtoMessage()    {}
func (msg *MsgObserve) Reset()       { *msg = MsgObserve{} }
func (msg MsgObserve) String() string {
	return fmt.Sprintf("MsgObserve{Authority: %s, PriceSqrt: %s}", msg.Authority, msg.PriceSqrt)
}

// MsgObserveResponse is empty: observe has no externally useful return
// value beyond success (spec §6).
type MsgObserveResponse struct{}

// MsgInitOracle fixes the ring's capacity. Valid only once per oracle;
// later calls are no-ops (spec §6's `new(observations_limit)`
// constructor, exposed here as a one-time admin action rather than a
// Go-level constructor since the oracle's state lives in the KVStore).
type MsgInitOracle struct {
	Authority         string `json:"authority"`
	ObservationsLimit uint32 `json:"observations_limit"`
}

func (msg MsgInitOracle) Route() string { return ModuleName }
func (msg MsgInitOracle) Type() string  { return TypeMsgInitOracle }

func (msg MsgInitOracle) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.ObservationsLimit == 0 || msg.ObservationsLimit > 65535 {
		return ErrInvalidObservationsLimit
	}
	return nil
}

func (msg MsgInitOracle) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

func (*MsgInitOracle) ProtoMessage()    {}
func (msg *MsgInitOracle) Reset()       { *msg = MsgInitOracle{} }
func (msg MsgInitOracle) String() string {
	return fmt.Sprintf("MsgInitOracle{Authority: %s, ObservationsLimit: %d}", msg.Authority, msg.ObservationsLimit)
}

type MsgInitOracleResponse struct{}

var (
	_ sdk.Msg = &MsgObserve{}
	_ sdk.Msg = &MsgInitOracle{}
)
