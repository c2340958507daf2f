package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ipfs/go-cid"
	dstore "github.com/ipfs/go-datastore"
	logging "github.com/ipfs/go-log/v2"
	"go.opencensus.io/stats"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/metrics"
)

var log = logging.Logger("chainstore")

var (
	headKey          = dstore.NewKey("/registry/head")
	receiptKeyPrefix = dstore.NewKey("/registry/receipts")
)

// ErrNoHead is returned by Load on a store that was never deployed to.
var ErrNoHead = xerrors.New("no registry head found")

// Head is the persisted position of the registry.
type Head struct {
	// Root is the cid of the registry state.
	Root cid.Cid
	// Epoch is the host time of the last applied message.
	Epoch abi.ChainEpoch
	// Height counts every message applied since deployment, successful or not.
	Height uint64
}

// MessageRecord is what the store keeps about every applied message.
type MessageRecord struct {
	Message cid.Cid
	Height  uint64
	Epoch   abi.ChainEpoch
	Receipt types.MessageReceipt
	Root    cid.Cid
}

// HeadChangeNotifee is called after the head moved. Errors are logged.
type HeadChangeNotifee func(prev, next Head) error

// ChainStore is the main point of access to registry data.
//
// Registry state and messages are kept in the Blockstore; the head and the
// receipts index are tracked in the Datastore.
type ChainStore struct {
	bs blockstore.Blockstore
	ds dstore.Batching

	headLk sync.RWMutex
	head   *Head

	notifLk  sync.Mutex
	notifees []HeadChangeNotifee
}

func NewChainStore(bs blockstore.Blockstore, ds dstore.Batching) *ChainStore {
	return &ChainStore{
		bs: bs,
		ds: ds,
	}
}

func (cs *ChainStore) Blockstore() blockstore.Blockstore {
	return cs.bs
}

// Load reads the persisted head. It returns ErrNoHead if there is none.
func (cs *ChainStore) Load(ctx context.Context) error {
	data, err := cs.ds.Get(ctx, headKey)
	if err == dstore.ErrNotFound {
		log.Warn("no previous registry state found")
		return ErrNoHead
	}
	if err != nil {
		return xerrors.Errorf("failed to load registry head from datastore: %w", err)
	}

	var h Head
	if err := json.Unmarshal(data, &h); err != nil {
		return xerrors.Errorf("failed to unmarshal stored registry head: %w", err)
	}

	has, err := cs.bs.Has(ctx, h.Root)
	if err != nil {
		return xerrors.Errorf("checking registry state %s: %w", h.Root, err)
	}
	if !has {
		return xerrors.Errorf("registry state %s referenced by head is missing", h.Root)
	}

	cs.headLk.Lock()
	cs.head = &h
	cs.headLk.Unlock()

	log.Infow("loaded registry head", "root", h.Root, "epoch", h.Epoch, "height", h.Height)
	return nil
}

// GetHead returns the current head. ok is false before the first SetHead.
func (cs *ChainStore) GetHead() (Head, bool) {
	cs.headLk.RLock()
	defer cs.headLk.RUnlock()
	if cs.head == nil {
		return Head{}, false
	}
	return *cs.head, true
}

// SetHead persists h as the new head.
func (cs *ChainStore) SetHead(ctx context.Context, h Head) error {
	return cs.commit(ctx, h, nil)
}

// ApplyMessage stores msg, indexes its receipt and moves the head to h, all in
// one datastore batch.
func (cs *ChainStore) ApplyMessage(ctx context.Context, msg *types.Message, rec MessageRecord, h Head) error {
	blk, err := msg.ToStorageBlock()
	if err != nil {
		return xerrors.Errorf("serializing message: %w", err)
	}
	if err := cs.bs.Put(ctx, blk); err != nil {
		return xerrors.Errorf("storing message: %w", err)
	}
	rec.Message = blk.Cid()
	return cs.commit(ctx, h, &rec)
}

func (cs *ChainStore) commit(ctx context.Context, h Head, rec *MessageRecord) error {
	if !h.Root.Defined() {
		return xerrors.New("refusing to write an undefined head")
	}

	data, err := json.Marshal(h)
	if err != nil {
		return xerrors.Errorf("failed to marshal registry head: %w", err)
	}

	b, err := cs.ds.Batch(ctx)
	if err != nil {
		return xerrors.Errorf("opening datastore batch: %w", err)
	}
	if rec != nil {
		has, err := cs.ds.Has(ctx, receiptKey(rec.Message))
		if err != nil {
			return xerrors.Errorf("checking message record: %w", err)
		}
		if has {
			return xerrors.Errorf("message %s already has a record", rec.Message)
		}
		rdata, err := json.Marshal(rec)
		if err != nil {
			return xerrors.Errorf("failed to marshal message record: %w", err)
		}
		if err := b.Put(ctx, receiptKey(rec.Message), rdata); err != nil {
			return xerrors.Errorf("writing message record: %w", err)
		}
	}
	if err := b.Put(ctx, headKey, data); err != nil {
		return xerrors.Errorf("failed to write registry head to datastore: %w", err)
	}
	if err := b.Commit(ctx); err != nil {
		return xerrors.Errorf("committing registry head: %w", err)
	}

	cs.headLk.Lock()
	var prev Head
	if cs.head != nil {
		prev = *cs.head
	}
	cs.head = &h
	cs.headLk.Unlock()

	stats.Record(ctx, metrics.HeadEpoch.M(int64(h.Epoch)))
	cs.notify(prev, h)
	return nil
}

// GetMessageRecord returns the record of an applied message.
func (cs *ChainStore) GetMessageRecord(ctx context.Context, mcid cid.Cid) (*MessageRecord, error) {
	data, err := cs.ds.Get(ctx, receiptKey(mcid))
	if err != nil {
		return nil, xerrors.Errorf("loading record of message %s: %w", mcid, err)
	}
	var rec MessageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, xerrors.Errorf("decoding record of message %s: %w", mcid, err)
	}
	return &rec, nil
}

// GetMessage loads a stored message by cid.
func (cs *ChainStore) GetMessage(ctx context.Context, mcid cid.Cid) (*types.Message, error) {
	blk, err := cs.bs.Get(ctx, mcid)
	if err != nil {
		return nil, xerrors.Errorf("loading message %s: %w", mcid, err)
	}
	return types.DecodeMessage(blk.RawData())
}

func (cs *ChainStore) SubscribeHeadChanges(f HeadChangeNotifee) {
	cs.notifLk.Lock()
	defer cs.notifLk.Unlock()
	cs.notifees = append(cs.notifees, f)
}

func (cs *ChainStore) notify(prev, next Head) {
	cs.notifLk.Lock()
	notifees := append([]HeadChangeNotifee(nil), cs.notifees...)
	cs.notifLk.Unlock()

	for _, f := range notifees {
		if err := f(prev, next); err != nil {
			log.Errorf("head change notifee failed: %s", err)
		}
	}
}

// Close flushes the blockstore if it buffers writes.
func (cs *ChainStore) Close(ctx context.Context) error {
	if f, ok := cs.bs.(blockstore.Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}

func receiptKey(c cid.Cid) dstore.Key {
	return receiptKeyPrefix.ChildString(c.String())
}
