package vm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

var (
	deployer = types.MustParseAddress("000000000000000000000000000000000000000001")
	alice    = types.MustParseAddress("000000000000000000000000000000000000000002")
	bob      = types.MustParseAddress("000000000000000000000000000000000000000003")
)

func message(t *testing.T, from types.Address, method abi.MethodNum, params cbg.CBORMarshaler) *types.Message {
	t.Helper()
	enc, aerr := actors.SerializeParams(params)
	require.Nil(t, aerr)
	return &types.Message{From: from, Method: method, Params: enc}
}

func TestDeploy(t *testing.T) {
	ctx := context.Background()
	bs := blockstore.NewMemory()

	vm, err := Deploy(ctx, bs, deployer, 0)
	require.NoError(t, err)
	require.True(t, vm.StateRoot().Defined())

	st, err := vm.LoadState(ctx)
	require.NoError(t, err)
	require.Equal(t, deployer, st.Owner)
	require.Equal(t, uint64(1), st.Nonce(deployer))

	reopened, err := NewVM(ctx, bs, vm.StateRoot())
	require.NoError(t, err)
	require.Equal(t, vm.StateRoot(), reopened.StateRoot())

	// the same deployment is content addressed to the same root
	other, err := Deploy(ctx, blockstore.NewMemory(), deployer, 0)
	require.NoError(t, err)
	require.Equal(t, vm.StateRoot(), other.StateRoot())
}

func TestNewVMMissingRoot(t *testing.T) {
	ctx := context.Background()
	vm, err := Deploy(ctx, blockstore.NewMemory(), deployer, 0)
	require.NoError(t, err)

	_, err = NewVM(ctx, blockstore.NewMemory(), vm.StateRoot())
	require.Error(t, err)
}

func TestApplyMessageFlow(t *testing.T) {
	ctx := context.Background()
	bs := blockstore.NewMemory()

	vm, err := Deploy(ctx, bs, deployer, 0)
	require.NoError(t, err)

	did := "did:metablox:alice"

	ret, err := vm.ApplyMessage(ctx, message(t, alice, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: did}), 1)
	require.NoError(t, err)
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	require.Empty(t, ret.Return)
	require.Equal(t, vm.StateRoot(), ret.StateRoot)

	ret, err = vm.ApplyMessage(ctx, message(t, alice, didregistry.Methods.DidLookup, &didregistry.DIDParams{DID: did}), 2)
	require.NoError(t, err)
	require.Equal(t, exitcode.Ok, ret.ExitCode)

	var controller types.Address
	require.NoError(t, actors.DecodeReturn(ret.Return, &controller))
	require.Equal(t, alice, controller)

	ret, err = vm.ApplyMessage(ctx, message(t, alice, didregistry.Methods.GetAttribute, &didregistry.DIDParams{DID: did}), 2)
	require.NoError(t, err)
	var attrs didregistry.GetAttributeReturn
	require.NoError(t, actors.DecodeReturn(ret.Return, &attrs))
	require.Equal(t, []string{""}, attrs.Attributes)

	ret, err = vm.ApplyMessage(ctx, message(t, alice, didregistry.Methods.AddDelegate, &didregistry.AddDelegateParams{
		DID:      did,
		Delegate: bob,
		ExpireIn: 10,
	}), 5)
	require.NoError(t, err)
	require.Equal(t, exitcode.Ok, ret.ExitCode)

	ret, err = vm.ApplyMessage(ctx, message(t, bob, didregistry.Methods.SetAttribute, &didregistry.SetAttributeParams{
		DID:        did,
		Attributes: []string{"service=https://example.org"},
	}), 15)
	require.NoError(t, err)
	require.Equal(t, exitcode.Ok, ret.ExitCode)

	ret, err = vm.ApplyMessage(ctx, message(t, bob, didregistry.Methods.SetAttribute, &didregistry.SetAttributeParams{
		DID:        did,
		Attributes: []string{"late"},
	}), 16)
	require.NoError(t, err)
	require.Equal(t, didregistry.ErrDelegateExpired, ret.ExitCode)

	st, err := vm.LoadState(ctx)
	require.NoError(t, err)
	got, aerr := st.GetAttribute(did)
	require.Nil(t, aerr)
	require.Equal(t, []string{"service=https://example.org"}, got)
	require.Equal(t, uint64(2), st.Nonce(alice))
	require.Equal(t, uint64(1), st.Nonce(bob))
}

func TestFailedMessageLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	bs := blockstore.NewMemory()

	vm, err := Deploy(ctx, bs, deployer, 0)
	require.NoError(t, err)
	root := vm.StateRoot()

	keys := func() int {
		ch, err := bs.AllKeysChan(ctx)
		require.NoError(t, err)
		n := 0
		for range ch {
			n++
		}
		return n
	}
	before := keys()

	for _, tc := range []struct {
		msg  *types.Message
		code exitcode.ExitCode
	}{
		{message(t, alice, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: "nope"}), didregistry.ErrDIDFormat},
		{message(t, alice, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: didregistry.DeriveDID(deployer)}), didregistry.ErrRegisteredByOther},
		{message(t, alice, didregistry.Methods.ChangeOwner, &didregistry.ChangeOwnerParams{DID: didregistry.DeriveDID(deployer), NewOwner: alice}), didregistry.ErrNotAuthorized},
		{message(t, alice, didregistry.Methods.GetAttribute, &didregistry.DIDParams{DID: "did:metablox:missing"}), didregistry.ErrDIDNotFound},
		{&types.Message{From: alice, Method: didregistry.Methods.SetAttribute, Params: []byte{0xff}}, exitcode.ErrSerialization},
		{&types.Message{From: alice, Method: didregistry.Methods.Constructor}, exitcode.SysErrInvalidMethod},
		{&types.Message{From: alice, Method: 42}, exitcode.SysErrInvalidMethod},
		{&types.Message{Method: didregistry.Methods.RegisterDID}, exitcode.SysErrSenderInvalid},
	} {
		ret, err := vm.ApplyMessage(ctx, tc.msg, 1)
		require.NoError(t, err)
		require.Equal(t, tc.code, ret.ExitCode, "%s", didregistry.ExitCodeName(ret.ExitCode))
		require.NotNil(t, ret.ActorErr)
		require.Empty(t, ret.Return)
		require.Equal(t, root, ret.StateRoot)
		require.Equal(t, root, vm.StateRoot())
	}

	require.Equal(t, before, keys())
}

func TestCallDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	bs := blockstore.NewMemory()

	vm, err := Deploy(ctx, bs, deployer, 0)
	require.NoError(t, err)
	root := vm.StateRoot()

	ret, err := vm.Call(ctx, message(t, alice, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: "did:metablox:x"}), 1)
	require.NoError(t, err)
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	require.Equal(t, root, vm.StateRoot())

	st, err := vm.LoadState(ctx)
	require.NoError(t, err)
	require.Equal(t, types.ZeroAccount, st.DidLookup("did:metablox:x"))
}

func TestDeployTwice(t *testing.T) {
	ctx := context.Background()
	vm, err := Deploy(ctx, blockstore.NewMemory(), deployer, 0)
	require.NoError(t, err)

	_, err = vm.apply(ctx, &types.Message{From: deployer, Method: didregistry.Methods.Constructor}, 1, applyDeploy)
	require.ErrorIs(t, err, ErrAlreadyDeployed)
}

func TestDeterministicRoots(t *testing.T) {
	ctx := context.Background()

	run := func() []string {
		vm, err := Deploy(ctx, blockstore.NewMemory(), deployer, 0)
		require.NoError(t, err)

		var roots []string
		for i, m := range []*types.Message{
			message(t, alice, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: "did:metablox:b"}),
			message(t, bob, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: "did:metablox:a"}),
			message(t, bob, didregistry.Methods.RegisterDID, &didregistry.DIDParams{DID: "did:metablox:b"}),
			message(t, alice, didregistry.Methods.SetAttribute, &didregistry.SetAttributeParams{DID: "did:metablox:b", Attributes: []string{"x"}}),
			message(t, alice, didregistry.Methods.AddDelegate, &didregistry.AddDelegateParams{DID: "did:metablox:b", Delegate: bob, ExpireIn: 3}),
		} {
			_, err := vm.ApplyMessage(ctx, m, abi.ChainEpoch(i+1))
			require.NoError(t, err)
			roots = append(roots, vm.StateRoot().String())
		}
		return roots
	}

	require.Equal(t, run(), run())
}
