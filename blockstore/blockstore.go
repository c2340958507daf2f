package blockstore

import (
	"context"

	blockstore "github.com/ipfs/boxo/blockstore"
	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	ipld "github.com/ipfs/go-ipld-format"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("blockstore")

// Blockstore is the content addressed store registry state lives in.
type Blockstore = blockstore.Blockstore

type Flusher interface {
	Flush(context.Context) error
}

// FromDatastore creates a new blockstore backed by the given datastore.
func FromDatastore(dstore ds.Batching) Blockstore {
	return blockstore.NewBlockstore(dstore)
}

// NewMemory returns a thread-safe in-memory blockstore.
func NewMemory() Blockstore {
	return FromDatastore(dssync.MutexWrap(ds.NewMapDatastore()))
}

// IsNotFound reports whether err means a block is absent.
func IsNotFound(err error) bool {
	return ipld.IsNotFound(err)
}
