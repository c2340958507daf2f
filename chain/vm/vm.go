package vm

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	ipldcbor "github.com/ipfs/go-ipld-cbor"
	logging "github.com/ipfs/go-log/v2"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/metrics"
)

var log = logging.Logger("vm")

// ErrAlreadyDeployed is returned by Deploy on a store that already has a head.
var ErrAlreadyDeployed = xerrors.New("registry already deployed")

type ApplyRet struct {
	types.MessageReceipt
	ActorErr aerrors.ActorError
	Duration time.Duration

	// StateRoot is the registry head after the message; unchanged on failure.
	StateRoot cid.Cid
}

// VM applies messages to the registry state stored in bs. Every message sees
// the state left by the previous successful one. A message either succeeds
// and moves the head, or fails and leaves both the head and the store as they
// were.
type VM struct {
	bs   blockstore.Blockstore
	root cid.Cid
	inv  *invoker
}

// NewVM opens the registry at root.
func NewVM(ctx context.Context, bs blockstore.Blockstore, root cid.Cid) (*VM, error) {
	if !root.Defined() {
		return nil, xerrors.New("registry state root is undefined")
	}
	has, err := bs.Has(ctx, root)
	if err != nil {
		return nil, xerrors.Errorf("checking state root %s: %w", root, err)
	}
	if !has {
		return nil, xerrors.Errorf("state root %s not found in blockstore", root)
	}
	return newVM(bs, root)
}

func newVM(bs blockstore.Blockstore, root cid.Cid) (*VM, error) {
	inv, err := newInvoker(didregistry.Actor{})
	if err != nil {
		return nil, xerrors.Errorf("building registry invoker: %w", err)
	}
	return &VM{bs: bs, root: root, inv: inv}, nil
}

// Deploy runs the registry constructor on behalf of deployer and returns a VM
// positioned at the new state.
func Deploy(ctx context.Context, bs blockstore.Blockstore, deployer types.Address, height abi.ChainEpoch) (*VM, error) {
	vm, err := newVM(bs, cid.Undef)
	if err != nil {
		return nil, err
	}

	ret, err := vm.apply(ctx, &types.Message{
		From:   deployer,
		Method: didregistry.Methods.Constructor,
	}, height, applyDeploy)
	if err != nil {
		return nil, xerrors.Errorf("deploying registry: %w", err)
	}
	if ret.ExitCode != exitcode.Ok {
		return nil, xerrors.Errorf("registry constructor failed (%s): %w", ret.ExitCode, ret.ActorErr)
	}

	log.Infow("deployed registry", "deployer", deployer, "root", vm.root)
	return vm, nil
}

func (vm *VM) StateRoot() cid.Cid {
	return vm.root
}

// LoadState decodes the registry state at the current head.
func (vm *VM) LoadState(ctx context.Context) (*didregistry.State, error) {
	return LoadState(ctx, vm.bs, vm.root)
}

// LoadState decodes the registry state stored under root.
func LoadState(ctx context.Context, bs blockstore.Blockstore, root cid.Cid) (*didregistry.State, error) {
	var st didregistry.State
	if err := ipldcbor.NewCborStore(bs).Get(ctx, root, &st); err != nil {
		return nil, xerrors.Errorf("loading registry state %s: %w", root, err)
	}
	return &st, nil
}

// ApplyMessage executes msg at height and persists the result if it succeeds.
// The returned error is only set for host failures; registry failures are
// reported through the receipt.
func (vm *VM) ApplyMessage(ctx context.Context, msg *types.Message, height abi.ChainEpoch) (*ApplyRet, error) {
	return vm.apply(ctx, msg, height, applyCommit)
}

// Call executes msg at height without persisting anything, whatever the
// outcome.
func (vm *VM) Call(ctx context.Context, msg *types.Message, height abi.ChainEpoch) (*ApplyRet, error) {
	return vm.apply(ctx, msg, height, applyDryRun)
}

type applyMode int

const (
	applyCommit applyMode = iota
	applyDryRun
	applyDeploy
)

func (vm *VM) apply(ctx context.Context, msg *types.Message, height abi.ChainEpoch, mode applyMode) (*ApplyRet, error) {
	start := time.Now()
	method := didregistry.MethodName(msg.Method)

	ret, err := vm.invoke(ctx, msg, height, mode)
	if err != nil {
		return nil, err
	}
	ret.Duration = time.Since(start)

	outcome := "ok"
	if ret.ExitCode != exitcode.Ok {
		outcome = "aborted"
	}
	_ = stats.RecordWithTags(ctx, []tag.Mutator{
		tag.Upsert(metrics.MethodName, method),
		tag.Upsert(metrics.ExitCode, didregistry.ExitCodeName(ret.ExitCode)),
		tag.Upsert(metrics.Outcome, outcome),
	}, metrics.VMApplied.M(1))
	_ = stats.RecordWithTags(ctx, []tag.Mutator{
		tag.Upsert(metrics.MethodName, method),
	}, metrics.VMApplyDuration.M(metrics.SinceInMilliseconds(start)))

	return ret, nil
}

func (vm *VM) invoke(ctx context.Context, msg *types.Message, height abi.ChainEpoch, mode applyMode) (*ApplyRet, error) {
	abort := func(aerr aerrors.ActorError) *ApplyRet {
		return &ApplyRet{
			MessageReceipt: types.MessageReceipt{ExitCode: aerrors.RetCode(aerr)},
			ActorErr:       aerr,
			StateRoot:      vm.root,
		}
	}

	if err := msg.ValidForApply(); err != nil {
		return abort(aerrors.Absorb(err, exitcode.SysErrSenderInvalid, "invalid message")), nil
	}

	switch {
	case mode == applyDeploy && vm.root.Defined():
		return nil, ErrAlreadyDeployed
	case mode != applyDeploy && msg.Method == didregistry.Methods.Constructor:
		return abort(aerrors.New(exitcode.SysErrInvalidMethod, "constructor can only run at deployment")), nil
	}

	buf := blockstore.NewBuffered(vm.bs)
	rt := &Runtime{
		ctx:    ctx,
		cst:    ipldcbor.NewCborStore(buf),
		caller: msg.From,
		height: height,
		head:   vm.root,
	}

	out, aerr := vm.inv.Invoke(rt, msg.Method, msg.Params)
	if aerrors.IsFatal(aerr) {
		return nil, xerrors.Errorf("fatal error applying %s: %w", didregistry.MethodName(msg.Method), aerr)
	}
	if aerr != nil {
		buf.Discard()
		log.Debugw("message aborted", "from", msg.From, "method", didregistry.MethodName(msg.Method), "exit", aerr.RetCode(), "err", aerr.Error())
		return abort(aerr), nil
	}

	if mode != applyDryRun && rt.head != vm.root {
		n := buf.Pending()
		if err := buf.Flush(ctx); err != nil {
			return nil, xerrors.Errorf("persisting registry state: %w", err)
		}
		stats.Record(ctx, metrics.VMFlushBlocks.M(int64(n)))
		vm.root = rt.head
	}

	return &ApplyRet{
		MessageReceipt: types.MessageReceipt{
			ExitCode: exitcode.Ok,
			Return:   out,
		},
		StateRoot: vm.root,
	}, nil
}
