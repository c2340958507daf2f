package impl

import (
	"context"
	"testing"
	"time"

	dstore "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/store"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/chain/vm"
)

var (
	deployer = types.MustParseAddress("000000000000000000000000000000000000000001")
	alice    = types.MustParseAddress("000000000000000000000000000000000000000002")
	bob      = types.MustParseAddress("000000000000000000000000000000000000000003")
)

type harness struct {
	bs    blockstore.Blockstore
	ds    dstore.Batching
	clock *clock.Mock
	api   *RegistryAPI
}

func newHarness(t *testing.T, strict bool) *harness {
	t.Helper()
	ctx := context.Background()

	h := &harness{
		bs:    blockstore.NewMemory(),
		ds:    dssync.MutexWrap(dstore.NewMapDatastore()),
		clock: clock.NewMock(),
	}
	h.clock.Set(time.Unix(100, 0))

	cs := store.NewChainStore(h.bs, h.ds)
	v, err := vm.Deploy(ctx, h.bs, deployer, 100)
	require.NoError(t, err)
	require.NoError(t, cs.SetHead(ctx, store.Head{Root: v.StateRoot(), Epoch: 100}))

	h.api = NewRegistryAPI(cs, v, h.clock, strict)
	return h
}

// requireOk returns a helper that unwraps a successful apply.
func requireOk(t *testing.T) func(*api.ApplyResult, error) *api.ApplyResult {
	return func(res *api.ApplyResult, err error) *api.ApplyResult {
		t.Helper()
		require.NoError(t, err)
		require.True(t, res.Ok(), "%s: %s", res.ExitName, res.Error)
		return res
	}
}

func TestRegistryAPIFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)
	a := h.api
	did := "did:metablox:alice"

	head, err := a.RegistryHead(ctx)
	require.NoError(t, err)
	require.Equal(t, deployer, head.Owner)
	require.Equal(t, didregistry.DeriveDID(deployer), head.OwnerDID)
	require.Equal(t, uint64(0), head.Height)

	res := requireOk(t)(a.RegistryRegisterDID(ctx, alice, did))
	require.Equal(t, uint64(1), res.Height)
	require.Equal(t, abi.ChainEpoch(100), res.Epoch)

	got, err := a.RegistryDidLookup(ctx, did)
	require.NoError(t, err)
	require.Equal(t, alice, got)

	attrs, err := a.RegistryGetAttribute(ctx, did)
	require.NoError(t, err)
	require.Equal(t, []string{""}, attrs)

	requireOk(t)(a.RegistryAddDelegate(ctx, alice, did, bob, 10))

	h.clock.Add(10 * time.Second)
	requireOk(t)(a.RegistrySetAttribute(ctx, bob, did, []string{"a", "b"}))

	h.clock.Add(time.Second)
	res, err = a.RegistrySetAttribute(ctx, bob, did, []string{"late"})
	require.NoError(t, err)
	require.Equal(t, didregistry.ErrDelegateExpired, res.Receipt.ExitCode)
	require.Equal(t, "DelegateExpired", res.ExitName)
	require.NotEmpty(t, res.Error)

	attrs, err = a.RegistryGetAttribute(ctx, did)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, attrs)

	dels, err := a.RegistryDelegates(ctx, did)
	require.NoError(t, err)
	require.Equal(t, []didregistry.DelegateInfo{{Delegate: bob, ExpiresAt: 110}}, dels)

	n, err := a.RegistryNonce(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)
	n, err = a.RegistryNonce(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)

	head, err = a.RegistryHead(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(4), head.Height)
	require.Equal(t, abi.ChainEpoch(111), head.Epoch)
}

func TestRegistryAPIFailuresAreRecorded(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)
	a := h.api

	before, err := a.RegistryHead(ctx)
	require.NoError(t, err)

	res, err := a.RegistryRegisterDID(ctx, alice, "nope")
	require.NoError(t, err)
	require.Equal(t, didregistry.ErrDIDFormat, res.Receipt.ExitCode)
	require.Equal(t, before.Root, res.Root)
	require.Equal(t, before.Height+1, res.Height)

	lookup, err := a.RegistryMessage(ctx, res.Message)
	require.NoError(t, err)
	require.Equal(t, alice, lookup.Message.From)
	require.Equal(t, didregistry.ErrDIDFormat, lookup.Receipt.ExitCode)
	require.Equal(t, before.Root, lookup.Root)

	_, err = a.RegistryGetAttribute(ctx, "did:metablox:missing")
	var aborted *api.ErrAborted
	require.True(t, xerrors.As(err, &aborted))
	require.Equal(t, didregistry.ErrDIDNotFound, aborted.ExitCode)

	_, err = a.RegistryDelegates(ctx, "did:metablox:missing")
	require.True(t, xerrors.As(err, &aborted))

	unknown, err := a.RegistryDidLookup(ctx, "did:metablox:missing")
	require.NoError(t, err)
	require.Equal(t, types.ZeroAccount, unknown)

	_, err = a.RegistryApply(ctx, &types.Message{Method: didregistry.Methods.RegisterDID})
	require.Error(t, err)

	res, err = a.RegistryApply(ctx, &types.Message{From: alice, Method: didregistry.Methods.Constructor})
	require.NoError(t, err)
	require.Equal(t, exitcode.SysErrInvalidMethod, res.Receipt.ExitCode)
}

func TestRegistryAPIRepeatedMessageHistory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)
	a := h.api
	did := "did:metablox:alice"

	first := requireOk(t)(a.RegistryRegisterDID(ctx, alice, did))
	second, err := a.RegistryRegisterDID(ctx, alice, did)
	require.NoError(t, err)
	require.Equal(t, didregistry.ErrAlreadyRegistered, second.Receipt.ExitCode)
	require.NotEqual(t, first.Message, second.Message)

	lookup, err := a.RegistryMessage(ctx, first.Message)
	require.NoError(t, err)
	require.Equal(t, uint64(1), lookup.Height)
	require.Equal(t, exitcode.Ok, lookup.Receipt.ExitCode)
	require.Equal(t, uint64(1), lookup.Message.Seq)

	lookup, err = a.RegistryMessage(ctx, second.Message)
	require.NoError(t, err)
	require.Equal(t, uint64(2), lookup.Height)
	require.Equal(t, didregistry.ErrAlreadyRegistered, lookup.Receipt.ExitCode)

	// the caller's message is not modified
	msg := &types.Message{From: alice, Method: didregistry.Methods.Constructor}
	res, err := a.RegistryApply(ctx, msg)
	require.NoError(t, err)
	require.Equal(t, uint64(3), res.Height)
	require.Equal(t, uint64(0), msg.Seq)
}

func TestRegistryAPIClockNeverGoesBack(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)

	h.clock.Set(time.Unix(200, 0))
	res := requireOk(t)(h.api.RegistryRegisterDID(ctx, alice, "did:metablox:a"))
	require.Equal(t, abi.ChainEpoch(200), res.Epoch)

	h.clock.Set(time.Unix(150, 0))
	res = requireOk(t)(h.api.RegistryRegisterDID(ctx, bob, "did:metablox:b"))
	require.Equal(t, abi.ChainEpoch(200), res.Epoch)
}

func TestRegistryAPIStrictTime(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)

	h.clock.Set(time.Unix(50, 0))
	_, err := h.api.RegistryRegisterDID(ctx, alice, "did:metablox:a")
	require.Error(t, err)

	head, err := h.api.RegistryHead(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), head.Height)
}

func TestRegistryAPIRestart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, false)

	requireOk(t)(h.api.RegistryRegisterDID(ctx, alice, "did:metablox:a"))
	requireOk(t)(h.api.RegistrySetAttribute(ctx, alice, "did:metablox:a", []string{"x"}))
	before, err := h.api.RegistryHead(ctx)
	require.NoError(t, err)

	cs := store.NewChainStore(h.bs, h.ds)
	require.NoError(t, cs.Load(ctx))
	head, ok := cs.GetHead()
	require.True(t, ok)
	v, err := vm.NewVM(ctx, h.bs, head.Root)
	require.NoError(t, err)

	restarted := NewRegistryAPI(cs, v, h.clock, false)
	after, err := restarted.RegistryHead(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)

	attrs, err := restarted.RegistryGetAttribute(ctx, "did:metablox:a")
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, attrs)
}

func TestRegistryAPINotDeployed(t *testing.T) {
	ctx := context.Background()
	cs := store.NewChainStore(blockstore.NewMemory(), dssync.MutexWrap(dstore.NewMapDatastore()))
	a := NewRegistryAPI(cs, nil, clock.NewMock(), false)

	_, err := a.RegistryHead(ctx)
	require.ErrorIs(t, err, api.ErrNotDeployed)
	_, err = a.RegistryRegisterDID(ctx, alice, "did:metablox:a")
	require.ErrorIs(t, err, api.ErrNotDeployed)
}
