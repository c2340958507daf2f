package impl

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/build"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/store"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/chain/vm"
)

var log = logging.Logger("node")

// stateCacheSize bounds the decoded states kept for host reads.
const stateCacheSize = 64

// RegistryAPI serves the registry held in a ChainStore. Calls are applied one
// at a time; each one sees the state left by the previous one.
type RegistryAPI struct {
	chain *store.ChainStore
	clock clock.Clock
	// strictTime rejects calls when the clock is behind the stored epoch.
	// Otherwise the epoch is held at its stored value.
	strictTime bool

	lk sync.Mutex
	vm *vm.VM

	// states caches decoded states by root. Roots are content addressed, so
	// entries never go stale.
	states *lru.Cache[cid.Cid, *didregistry.State]
}

var _ api.Registry = (*RegistryAPI)(nil)

func NewRegistryAPI(cs *store.ChainStore, v *vm.VM, clk clock.Clock, strictTime bool) *RegistryAPI {
	states, _ := lru.New[cid.Cid, *didregistry.State](stateCacheSize)
	return &RegistryAPI{
		chain:      cs,
		clock:      clk,
		strictTime: strictTime,
		vm:         v,
		states:     states,
	}
}

func (a *RegistryAPI) Version(context.Context) (api.APIVersion, error) {
	return api.APIVersion{
		Version:    build.UserVersion(),
		APIVersion: build.RegistryAPIVersion,
	}, nil
}

func (a *RegistryAPI) RegistryHead(ctx context.Context) (*api.RegistryHead, error) {
	a.lk.Lock()
	defer a.lk.Unlock()

	head, ok := a.chain.GetHead()
	if !ok {
		return nil, api.ErrNotDeployed
	}
	st, err := a.headState(ctx)
	if err != nil {
		return nil, err
	}
	return &api.RegistryHead{
		Root:     head.Root,
		Epoch:    head.Epoch,
		Height:   head.Height,
		Owner:    st.Owner,
		OwnerDID: st.OwnerDID,
	}, nil
}

// epoch returns the host time for the next call. It never goes below the
// epoch of the last applied message.
func (a *RegistryAPI) epoch(head store.Head) (abi.ChainEpoch, error) {
	now := abi.ChainEpoch(a.clock.Now().Unix())
	if now >= head.Epoch {
		return now, nil
	}
	if a.strictTime {
		return 0, xerrors.Errorf("host time %d is behind registry epoch %d", now, head.Epoch)
	}
	log.Warnw("host clock is behind registry epoch, holding epoch", "now", now, "epoch", head.Epoch)
	return head.Epoch, nil
}

func (a *RegistryAPI) RegistryApply(ctx context.Context, msg *types.Message) (*api.ApplyResult, error) {
	if msg == nil {
		return nil, xerrors.New("message is nil")
	}
	if err := msg.ValidForApply(); err != nil {
		return nil, xerrors.Errorf("invalid message: %w", err)
	}

	a.lk.Lock()
	defer a.lk.Unlock()
	return a.apply(ctx, msg)
}

func (a *RegistryAPI) apply(ctx context.Context, msg *types.Message) (*api.ApplyResult, error) {
	head, ok := a.chain.GetHead()
	if !ok {
		return nil, api.ErrNotDeployed
	}
	epoch, err := a.epoch(head)
	if err != nil {
		return nil, err
	}

	stamped := *msg
	stamped.Seq = head.Height + 1
	msg = &stamped

	ret, err := a.vm.ApplyMessage(ctx, msg, epoch)
	if err != nil {
		return nil, xerrors.Errorf("applying message: %w", err)
	}

	next := store.Head{Root: ret.StateRoot, Epoch: epoch, Height: head.Height + 1}
	rec := store.MessageRecord{
		Height:  next.Height,
		Epoch:   epoch,
		Receipt: ret.MessageReceipt,
		Root:    ret.StateRoot,
	}
	if err := a.chain.ApplyMessage(ctx, msg, rec, next); err != nil {
		// the vm already moved; put it back on the persisted head
		reset, rerr := vm.NewVM(ctx, a.chain.Blockstore(), head.Root)
		if rerr != nil {
			return nil, xerrors.Errorf("persisting head: %w (resetting vm: %s)", err, rerr)
		}
		a.vm = reset
		return nil, xerrors.Errorf("persisting head: %w", err)
	}

	res := &api.ApplyResult{
		Message:  msg.Cid(),
		Receipt:  ret.MessageReceipt,
		ExitName: didregistry.ExitCodeName(ret.ExitCode),
		Root:     next.Root,
		Epoch:    next.Epoch,
		Height:   next.Height,
	}
	if ret.ActorErr != nil {
		res.Error = ret.ActorErr.Error()
	}

	log.Infow("applied message",
		"from", msg.From,
		"method", didregistry.MethodName(msg.Method),
		"exit", res.ExitName,
		"root", next.Root,
		"height", next.Height,
		"took", ret.Duration)
	return res, nil
}

func (a *RegistryAPI) applyMethod(ctx context.Context, from types.Address, method abi.MethodNum, params cbg.CBORMarshaler) (*api.ApplyResult, error) {
	if from.Empty() {
		return nil, xerrors.New("sender address cannot be empty")
	}
	enc, aerr := actors.SerializeParams(params)
	if aerr != nil {
		return nil, aerr
	}

	a.lk.Lock()
	defer a.lk.Unlock()
	return a.apply(ctx, &types.Message{From: from, Method: method, Params: enc})
}

func (a *RegistryAPI) RegistryRegisterDID(ctx context.Context, from types.Address, did string) (*api.ApplyResult, error) {
	return a.applyMethod(ctx, from, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: did})
}

func (a *RegistryAPI) RegistrySetAttribute(ctx context.Context, from types.Address, did string, attrs []string) (*api.ApplyResult, error) {
	return a.applyMethod(ctx, from, didregistry.Methods.SetAttribute, &didregistry.SetAttributeParams{
		DID:        did,
		Attributes: attrs,
	})
}

func (a *RegistryAPI) RegistryChangeOwner(ctx context.Context, from types.Address, did string, newOwner types.Address) (*api.ApplyResult, error) {
	return a.applyMethod(ctx, from, didregistry.Methods.ChangeOwner, &didregistry.ChangeOwnerParams{
		DID:      did,
		NewOwner: newOwner,
	})
}

func (a *RegistryAPI) RegistryAddDelegate(ctx context.Context, from types.Address, did string, delegate types.Address, expireIn int64) (*api.ApplyResult, error) {
	return a.applyMethod(ctx, from, didregistry.Methods.AddDelegate, &didregistry.AddDelegateParams{
		DID:      did,
		Delegate: delegate,
		ExpireIn: expireIn,
	})
}

// call runs a read-only method against the current head without recording it.
func (a *RegistryAPI) call(ctx context.Context, method abi.MethodNum, params cbg.CBORMarshaler, out cbg.CBORUnmarshaler) error {
	enc, aerr := actors.SerializeParams(params)
	if aerr != nil {
		return aerr
	}

	a.lk.Lock()
	defer a.lk.Unlock()

	head, ok := a.chain.GetHead()
	if !ok {
		return api.ErrNotDeployed
	}
	epoch, err := a.epoch(head)
	if err != nil {
		return err
	}

	ret, err := a.vm.Call(ctx, &types.Message{
		From:   types.ZeroAccount,
		Method: method,
		Params: enc,
	}, epoch)
	if err != nil {
		return xerrors.Errorf("calling %s: %w", didregistry.MethodName(method), err)
	}
	if ret.ExitCode != exitcode.Ok {
		aborted := &api.ErrAborted{ExitCode: ret.ExitCode}
		if ret.ActorErr != nil {
			aborted.Message = ret.ActorErr.Error()
		}
		return aborted
	}
	return actors.DecodeReturn(ret.Return, out)
}

func (a *RegistryAPI) RegistryDidLookup(ctx context.Context, did string) (types.Address, error) {
	var out types.Address
	if err := a.call(ctx, didregistry.Methods.DidLookup, &didregistry.DIDParams{DID: did}, &out); err != nil {
		return types.Undef, err
	}
	return out, nil
}

func (a *RegistryAPI) RegistryGetAttribute(ctx context.Context, did string) ([]string, error) {
	var out didregistry.GetAttributeReturn
	if err := a.call(ctx, didregistry.Methods.GetAttribute, &didregistry.DIDParams{DID: did}, &out); err != nil {
		return nil, err
	}
	return out.Attributes, nil
}

func (a *RegistryAPI) loadState(ctx context.Context) (*didregistry.State, error) {
	a.lk.Lock()
	defer a.lk.Unlock()

	if _, ok := a.chain.GetHead(); !ok {
		return nil, api.ErrNotDeployed
	}
	return a.headState(ctx)
}

// headState returns the decoded state at the vm head. Callers hold a.lk and
// must not modify the result.
func (a *RegistryAPI) headState(ctx context.Context) (*didregistry.State, error) {
	root := a.vm.StateRoot()
	if st, ok := a.states.Get(root); ok {
		return st, nil
	}
	st, err := a.vm.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	a.states.Add(root, st)
	return st, nil
}

func (a *RegistryAPI) RegistryNonce(ctx context.Context, addr types.Address) (uint64, error) {
	st, err := a.loadState(ctx)
	if err != nil {
		return 0, err
	}
	return st.Nonce(addr), nil
}

func (a *RegistryAPI) RegistryDelegates(ctx context.Context, did string) ([]didregistry.DelegateInfo, error) {
	st, err := a.loadState(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := st.Controller(did); !ok {
		return nil, &api.ErrAborted{ExitCode: didregistry.ErrDIDNotFound, Message: did}
	}
	return st.ListDelegates(did), nil
}

func (a *RegistryAPI) RegistryMessage(ctx context.Context, mcid cid.Cid) (*api.MessageLookup, error) {
	rec, err := a.chain.GetMessageRecord(ctx, mcid)
	if err != nil {
		return nil, err
	}
	msg, err := a.chain.GetMessage(ctx, mcid)
	if err != nil {
		return nil, err
	}
	return &api.MessageLookup{
		Message: msg,
		ApplyResult: api.ApplyResult{
			Message:  rec.Message,
			Receipt:  rec.Receipt,
			ExitName: didregistry.ExitCodeName(rec.Receipt.ExitCode),
			Root:     rec.Root,
			Epoch:    rec.Epoch,
			Height:   rec.Height,
		},
	}, nil
}
