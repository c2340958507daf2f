package dtypes

import (
	"github.com/ipfs/go-datastore"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
)

// MetadataDS stores metadata
// dy default it's namespaced under /metadata in main repo datastore
type MetadataDS datastore.Batching

// ChainBlockstore holds registry state blocks and applied messages.
type ChainBlockstore blockstore.Blockstore
