package didregistry

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/runtime"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

var log = logging.Logger("didregistry")

// Method numbers. The constructor only runs at deployment.
var Methods = struct {
	Constructor  abi.MethodNum
	RegisterDID  abi.MethodNum
	SetAttribute abi.MethodNum
	ChangeOwner  abi.MethodNum
	AddDelegate  abi.MethodNum
	DidLookup    abi.MethodNum
	GetAttribute abi.MethodNum
}{0, 1, 2, 3, 4, 5, 6}

// MethodNames is indexed by method number.
var MethodNames = []string{
	"constructor",
	"register",
	"set_attribute",
	"change_owner",
	"add_delegate",
	"did_lookup",
	"get_attribute",
}

// MethodName returns the wire name of m, or "unknown".
func MethodName(m abi.MethodNum) string {
	if int(m) < len(MethodNames) {
		return MethodNames[m]
	}
	return "unknown"
}

type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		0: a.Constructor,
		1: a.RegisterDID,
		2: a.SetAttribute,
		3: a.ChangeOwner,
		4: a.AddDelegate,
		5: a.DidLookup,
		6: a.GetAttribute,
	}
}

func callContext(rt runtime.Runtime) CallContext {
	return CallContext{Caller: rt.Caller(), Time: rt.CurrEpoch()}
}

func loadState(rt runtime.Runtime) (*State, aerrors.ActorError) {
	var st State
	if err := rt.StateReadonly(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (Actor) Constructor(rt runtime.Runtime, _ *abi.EmptyValue) (*abi.EmptyValue, aerrors.ActorError) {
	st := Construct(callContext(rt))
	if err := rt.StateCommit(st); err != nil {
		return nil, err
	}
	log.Infow("registry constructed", "owner", st.Owner, "did", st.OwnerDID)
	return abi.Empty, nil
}

func (Actor) RegisterDID(rt runtime.Runtime, p *DIDParams) (*abi.EmptyValue, aerrors.ActorError) {
	st, err := loadState(rt)
	if err != nil {
		return nil, err
	}
	next, err := st.RegisterDID(callContext(rt), p.DID)
	if err != nil {
		return nil, err
	}
	if err := rt.StateCommit(next); err != nil {
		return nil, err
	}
	return abi.Empty, nil
}

func (Actor) SetAttribute(rt runtime.Runtime, p *SetAttributeParams) (*abi.EmptyValue, aerrors.ActorError) {
	st, err := loadState(rt)
	if err != nil {
		return nil, err
	}
	next, err := st.SetAttribute(callContext(rt), p.DID, p.Attributes)
	if err != nil {
		return nil, err
	}
	if err := rt.StateCommit(next); err != nil {
		return nil, err
	}
	return abi.Empty, nil
}

func (Actor) ChangeOwner(rt runtime.Runtime, p *ChangeOwnerParams) (*abi.EmptyValue, aerrors.ActorError) {
	st, err := loadState(rt)
	if err != nil {
		return nil, err
	}
	next, err := st.ChangeOwner(callContext(rt), p.DID, p.NewOwner)
	if err != nil {
		return nil, err
	}
	if err := rt.StateCommit(next); err != nil {
		return nil, err
	}
	return abi.Empty, nil
}

func (Actor) AddDelegate(rt runtime.Runtime, p *AddDelegateParams) (*abi.EmptyValue, aerrors.ActorError) {
	st, err := loadState(rt)
	if err != nil {
		return nil, err
	}
	next, err := st.AddDelegate(callContext(rt), p.DID, p.Delegate, p.ExpireIn)
	if err != nil {
		return nil, err
	}
	if err := rt.StateCommit(next); err != nil {
		return nil, err
	}
	return abi.Empty, nil
}

// DidLookup never fails; unknown DIDs resolve to the zero account.
func (Actor) DidLookup(rt runtime.Runtime, p *DIDParams) (*types.Address, aerrors.ActorError) {
	st, err := loadState(rt)
	if err != nil {
		return nil, err
	}
	controller := st.DidLookup(p.DID)
	return &controller, nil
}

func (Actor) GetAttribute(rt runtime.Runtime, p *DIDParams) (*GetAttributeReturn, aerrors.ActorError) {
	st, err := loadState(rt)
	if err != nil {
		return nil, err
	}
	attrs, err := st.GetAttribute(p.DID)
	if err != nil {
		return nil, err
	}
	return &GetAttributeReturn{Attributes: attrs}, nil
}
