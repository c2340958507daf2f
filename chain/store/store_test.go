package store_test

import (
	"context"
	"testing"

	dstore "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/store"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/chain/vm"
)

var deployer = types.MustParseAddress("000000000000000000000000000000000000000001")

func TestHeadPersistence(t *testing.T) {
	ctx := context.Background()
	bs := blockstore.NewMemory()
	ds := dssync.MutexWrap(dstore.NewMapDatastore())

	cs := store.NewChainStore(bs, ds)
	require.ErrorIs(t, cs.Load(ctx), store.ErrNoHead)
	_, ok := cs.GetHead()
	require.False(t, ok)

	v, err := vm.Deploy(ctx, bs, deployer, 3)
	require.NoError(t, err)

	var seen []store.Head
	cs.SubscribeHeadChanges(func(prev, next store.Head) error {
		seen = append(seen, next)
		return nil
	})

	head := store.Head{Root: v.StateRoot(), Epoch: 3}
	require.NoError(t, cs.SetHead(ctx, head))
	require.Equal(t, []store.Head{head}, seen)

	reopened := store.NewChainStore(bs, ds)
	require.NoError(t, reopened.Load(ctx))
	got, ok := reopened.GetHead()
	require.True(t, ok)
	require.Equal(t, head, got)
}

func TestLoadMissingState(t *testing.T) {
	ctx := context.Background()
	ds := dssync.MutexWrap(dstore.NewMapDatastore())

	v, err := vm.Deploy(ctx, blockstore.NewMemory(), deployer, 0)
	require.NoError(t, err)

	require.NoError(t, store.NewChainStore(blockstore.NewMemory(), ds).SetHead(ctx, store.Head{Root: v.StateRoot()}))
	require.Error(t, store.NewChainStore(blockstore.NewMemory(), ds).Load(ctx))
}

func TestApplyMessageRecord(t *testing.T) {
	ctx := context.Background()
	bs := blockstore.NewMemory()
	cs := store.NewChainStore(bs, dssync.MutexWrap(dstore.NewMapDatastore()))

	v, err := vm.Deploy(ctx, bs, deployer, 0)
	require.NoError(t, err)
	require.NoError(t, cs.SetHead(ctx, store.Head{Root: v.StateRoot()}))

	params, aerr := actors.SerializeParams(&didregistry.DIDParams{DID: "did:metablox:x"})
	require.Nil(t, aerr)
	msg := &types.Message{From: deployer, Method: didregistry.Methods.RegisterDID, Params: params}

	ret, err := v.ApplyMessage(ctx, msg, 1)
	require.NoError(t, err)
	require.Equal(t, exitcode.Ok, ret.ExitCode)

	head := store.Head{Root: ret.StateRoot, Epoch: 1, Height: 1}
	require.NoError(t, cs.ApplyMessage(ctx, msg, store.MessageRecord{
		Height:  1,
		Epoch:   1,
		Receipt: ret.MessageReceipt,
		Root:    ret.StateRoot,
	}, head))

	rec, err := cs.GetMessageRecord(ctx, msg.Cid())
	require.NoError(t, err)
	require.Equal(t, msg.Cid(), rec.Message)
	require.Equal(t, ret.StateRoot, rec.Root)
	require.True(t, rec.Receipt.Equals(&ret.MessageReceipt))

	stored, err := cs.GetMessage(ctx, msg.Cid())
	require.NoError(t, err)
	require.Equal(t, msg.Params, stored.Params)
	require.Equal(t, msg.From, stored.From)

	got, _ := cs.GetHead()
	require.Equal(t, head, got)

	// a record is never overwritten
	err = cs.ApplyMessage(ctx, msg, store.MessageRecord{Height: 2, Epoch: 1, Root: ret.StateRoot},
		store.Head{Root: ret.StateRoot, Epoch: 1, Height: 2})
	require.Error(t, err)
	got, _ = cs.GetHead()
	require.Equal(t, head, got)
	rec, err = cs.GetMessageRecord(ctx, msg.Cid())
	require.NoError(t, err)
	require.Equal(t, uint64(1), rec.Height)
}

func TestSetHeadRejectsUndef(t *testing.T) {
	cs := store.NewChainStore(blockstore.NewMemory(), dssync.MutexWrap(dstore.NewMapDatastore()))
	require.Error(t, cs.SetHead(context.Background(), store.Head{}))
}
