package blockstore

import (
	"context"
	"sync"

	block "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"
)

// BufferedBlockstore stages writes in memory on top of a read layer. Nothing
// reaches the read layer until Flush.
type BufferedBlockstore struct {
	read Blockstore

	lk      sync.Mutex
	pending map[cid.Cid]block.Block
	order   []cid.Cid
}

func NewBuffered(base Blockstore) *BufferedBlockstore {
	return &BufferedBlockstore{
		read:    base,
		pending: make(map[cid.Cid]block.Block),
	}
}

func (bs *BufferedBlockstore) Get(ctx context.Context, c cid.Cid) (block.Block, error) {
	bs.lk.Lock()
	blk, ok := bs.pending[c]
	bs.lk.Unlock()
	if ok {
		return blk, nil
	}
	return bs.read.Get(ctx, c)
}

func (bs *BufferedBlockstore) Has(ctx context.Context, c cid.Cid) (bool, error) {
	bs.lk.Lock()
	_, ok := bs.pending[c]
	bs.lk.Unlock()
	if ok {
		return true, nil
	}
	return bs.read.Has(ctx, c)
}

func (bs *BufferedBlockstore) Put(ctx context.Context, blk block.Block) error {
	has, err := bs.read.Has(ctx, blk.Cid())
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	bs.lk.Lock()
	defer bs.lk.Unlock()
	if _, ok := bs.pending[blk.Cid()]; !ok {
		bs.pending[blk.Cid()] = blk
		bs.order = append(bs.order, blk.Cid())
	}
	return nil
}

// Pending is the number of staged blocks.
func (bs *BufferedBlockstore) Pending() int {
	bs.lk.Lock()
	defer bs.lk.Unlock()
	return len(bs.order)
}

// Flush writes the staged blocks to the read layer in the order they were put.
func (bs *BufferedBlockstore) Flush(ctx context.Context) error {
	bs.lk.Lock()
	defer bs.lk.Unlock()

	if len(bs.order) == 0 {
		return nil
	}

	blks := make([]block.Block, 0, len(bs.order))
	for _, c := range bs.order {
		blks = append(blks, bs.pending[c])
	}
	if err := bs.read.PutMany(ctx, blks); err != nil {
		return xerrors.Errorf("flushing %d buffered blocks: %w", len(blks), err)
	}
	if f, ok := bs.read.(Flusher); ok {
		if err := f.Flush(ctx); err != nil {
			return xerrors.Errorf("flushing base blockstore: %w", err)
		}
	}

	log.Debugw("flushed buffered blocks", "count", len(blks))
	bs.discardLocked()
	return nil
}

// Discard drops everything staged since the last flush.
func (bs *BufferedBlockstore) Discard() {
	bs.lk.Lock()
	defer bs.lk.Unlock()
	bs.discardLocked()
}

func (bs *BufferedBlockstore) discardLocked() {
	bs.pending = make(map[cid.Cid]block.Block)
	bs.order = nil
}

// Read returns the underlying read layer.
func (bs *BufferedBlockstore) Read() Blockstore {
	return bs.read
}
