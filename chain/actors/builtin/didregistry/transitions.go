package didregistry

import (
	"math"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/adt"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// CallContext is what the host tells the registry about a call.
type CallContext struct {
	Caller types.Address
	Time   abi.ChainEpoch
}

// Every mutating transition below works on a clone of the receiver and only
// returns it once all checks have passed. The receiver is never modified, so
// a failed call leaves no trace, nonce bumps included.

// Construct seeds the registry for the deploying account.
func Construct(ctx CallContext) *State {
	did := DeriveDID(ctx.Caller)

	st := newState(ctx.Caller, did)
	st.Nonces.Put(ctx.Caller, 1)
	st.Dids.Put(did, ctx.Caller)
	st.Attributes.Put(did, []string{DefaultIssuerAttribute})
	return st
}

func (st *State) RegisterDID(ctx CallContext, did string) (*State, aerrors.ActorError) {
	if err := ValidateDID(did); err != nil {
		return nil, err
	}

	next := st.Clone()
	if err := next.bumpNonce(ctx.Caller); err != nil {
		return nil, err
	}

	if controller, ok := next.Dids.Get(did); ok {
		if controller == ctx.Caller {
			return nil, aerrors.Newf(ErrAlreadyRegistered, "DID %s already registered", did)
		}
		return nil, aerrors.Newf(ErrRegisteredByOther, "DID %s registered by another controller", did)
	}

	next.Dids.Put(did, ctx.Caller)
	log.Debugw("registered did", "did", did, "controller", ctx.Caller)
	return next, nil
}

func (st *State) SetAttribute(ctx CallContext, did string, attrs []string) (*State, aerrors.ActorError) {
	controller, ok := st.Dids.Get(did)
	if !ok {
		return nil, notFound(did)
	}

	if controller != ctx.Caller {
		if err := st.checkDelegate(ctx, did); err != nil {
			return nil, err
		}
	}

	next := st.Clone()
	next.Attributes.Put(did, copyStrings(attrs))
	if err := next.bumpNonce(ctx.Caller); err != nil {
		return nil, err
	}
	return next, nil
}

// checkDelegate authorizes a non-controller caller through a live grant. A
// grant is live while the current time does not exceed its expiry.
func (st *State) checkDelegate(ctx CallContext, did string) aerrors.ActorError {
	expiry, ok := st.Delegate(did, ctx.Caller)
	if !ok {
		return aerrors.Newf(ErrNotAuthorized, "%s is not authorized for %s", ctx.Caller, did)
	}
	if expiry < ctx.Time {
		return aerrors.Newf(ErrDelegateExpired, "delegate %s for %s expired at %d (now %d)", ctx.Caller, did, expiry, ctx.Time)
	}
	return nil
}

// ChangeOwner hands a DID to a new controller. Only the current controller
// may do this; delegates cannot.
func (st *State) ChangeOwner(ctx CallContext, did string, newOwner types.Address) (*State, aerrors.ActorError) {
	if err := st.checkController(ctx, did); err != nil {
		return nil, err
	}
	if newOwner.Empty() {
		return nil, aerrors.New(exitcode.ErrIllegalArgument, "new owner address is undefined")
	}

	next := st.Clone()
	next.Dids.Put(did, newOwner)
	if err := next.bumpNonce(ctx.Caller); err != nil {
		return nil, err
	}
	log.Debugw("changed did owner", "did", did, "from", ctx.Caller, "to", newOwner)
	return next, nil
}

// AddDelegate grants or overwrites write access to the attributes of did
// until ctx.Time + expireIn. A negative expireIn yields an expired grant.
func (st *State) AddDelegate(ctx CallContext, did string, delegate types.Address, expireIn int64) (*State, aerrors.ActorError) {
	if err := st.checkController(ctx, did); err != nil {
		return nil, err
	}
	if delegate.Empty() {
		return nil, aerrors.New(exitcode.ErrIllegalArgument, "delegate address is undefined")
	}

	expiry, ok := addEpochs(ctx.Time, expireIn)
	if !ok {
		return nil, aerrors.Newf(exitcode.ErrIllegalArgument, "delegate expiry overflows: %d + %d", ctx.Time, expireIn)
	}

	next := st.Clone()
	dm, ok := next.Delegates.Get(did)
	if !ok {
		dm = newDelegateMap()
		next.Delegates.Put(did, dm)
	}
	dm.Put(delegate, expiry)

	if err := next.bumpNonce(ctx.Caller); err != nil {
		return nil, err
	}
	return next, nil
}

// DidLookup returns the controller of did, or ZeroAccount when it is not
// registered.
func (st *State) DidLookup(did string) types.Address {
	if controller, ok := st.Dids.Get(did); ok {
		return controller
	}
	return types.ZeroAccount
}

// GetAttribute returns the attribute list of a registered DID. A DID that
// never had attributes set reads as a single empty string, matching what
// deployed clients decode.
func (st *State) GetAttribute(did string) ([]string, aerrors.ActorError) {
	if !st.Dids.Has(did) {
		return nil, notFound(did)
	}
	attrs, ok := st.Attributes.Get(did)
	if !ok {
		return []string{""}, nil
	}
	return copyStrings(attrs), nil
}

func (st *State) checkController(ctx CallContext, did string) aerrors.ActorError {
	controller, ok := st.Dids.Get(did)
	if !ok {
		return notFound(did)
	}
	if controller != ctx.Caller {
		return aerrors.Newf(ErrNotAuthorized, "%s is not the controller of %s", ctx.Caller, did)
	}
	return nil
}

func (st *State) bumpNonce(a types.Address) aerrors.ActorError {
	n, _ := st.Nonces.Get(a)
	if n == math.MaxUint64 {
		return aerrors.Newf(exitcode.ErrIllegalState, "nonce of %s overflows", a)
	}
	st.Nonces.Put(a, n+1)
	return nil
}

func notFound(did string) aerrors.ActorError {
	return aerrors.Newf(ErrDIDNotFound, "DID %s does not exist", did)
}

func newDelegateMap() *DelegateMap {
	return adt.NewAddressMap[abi.ChainEpoch]()
}

func addEpochs(t abi.ChainEpoch, d int64) (abi.ChainEpoch, bool) {
	sum := int64(t) + d
	if (d > 0 && sum < int64(t)) || (d < 0 && sum > int64(t)) {
		return 0, false
	}
	return abi.ChainEpoch(sum), true
}
