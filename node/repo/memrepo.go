package repo

import (
	"context"
	"os"
	"sync"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	dssync "github.com/ipfs/go-datastore/sync"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
)

type MemRepo struct {
	api struct {
		sync.Mutex
		endpoint string
	}

	repoLock chan struct{}
	token    *byte

	datastore datastore.Batching
	tempDir   string

	// holds the current config value
	config struct {
		sync.Mutex
		val *config.Registry
	}
}

type lockedMemRepo struct {
	mem *MemRepo
	sync.RWMutex

	token *byte
}

var _ Repo = &MemRepo{}

// MemRepoOptions contains options for memory repo
type MemRepoOptions struct {
	Ds     datastore.Batching
	Config *config.Registry
}

// NewMemory creates new memory based repo with provided options.
// opts can be nil, it  will be replaced with defaults.
// Any field in opts can be nil, they will be replaced by defaults.
func NewMemory(opts *MemRepoOptions) *MemRepo {
	if opts == nil {
		opts = &MemRepoOptions{}
	}
	if opts.Ds == nil {
		opts.Ds = dssync.MutexWrap(datastore.NewMapDatastore())
	}

	mem := &MemRepo{
		repoLock:  make(chan struct{}, 1),
		datastore: opts.Ds,
	}
	mem.config.val = opts.Config
	return mem
}

func (mem *MemRepo) APIEndpoint() (string, error) {
	mem.api.Lock()
	defer mem.api.Unlock()
	if mem.api.endpoint == "" {
		return "", ErrNoAPIEndpoint
	}
	return mem.api.endpoint, nil
}

func (mem *MemRepo) Lock() (LockedRepo, error) {
	select {
	case mem.repoLock <- struct{}{}:
	default:
		return nil, ErrRepoAlreadyLocked
	}
	mem.token = new(byte)

	return &lockedMemRepo{
		mem:   mem,
		token: mem.token,
	}, nil
}

func (mem *MemRepo) Cleanup() {
	mem.api.Lock()
	defer mem.api.Unlock()

	if mem.tempDir != "" {
		if err := os.RemoveAll(mem.tempDir); err != nil {
			log.Errorw("cleanup test memrepo", "error", err)
		}
		mem.tempDir = ""
	}
}

func (lmem *lockedMemRepo) checkToken() error {
	lmem.RLock()
	defer lmem.RUnlock()
	if lmem.mem.token != lmem.token {
		return ErrClosedRepo
	}
	return nil
}

func (lmem *lockedMemRepo) Path() string {
	lmem.Lock()
	defer lmem.Unlock()

	if lmem.mem.tempDir != "" {
		return lmem.mem.tempDir
	}

	t, err := os.MkdirTemp(os.TempDir(), "did-registry-memrepo-temp-")
	if err != nil {
		panic(err) // only used in tests, probably fine
	}

	lmem.mem.tempDir = t
	return t
}

func (lmem *lockedMemRepo) Close() error {
	if err := lmem.checkToken(); err != nil {
		return err
	}
	lmem.Lock()
	defer lmem.Unlock()

	if lmem.mem.token != lmem.token {
		return ErrClosedRepo
	}

	lmem.mem.token = nil
	lmem.mem.api.Lock()
	lmem.mem.api.endpoint = ""
	lmem.mem.api.Unlock()
	<-lmem.mem.repoLock // unlock
	return nil
}

func (lmem *lockedMemRepo) Datastore(_ context.Context) (datastore.Batching, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}

	return namespace.Wrap(lmem.mem.datastore, metadataNs), nil
}

func (lmem *lockedMemRepo) Blockstore(_ context.Context) (blockstore.Blockstore, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}
	return blockstore.FromDatastore(lmem.mem.datastore), nil
}

func (lmem *lockedMemRepo) Config() (*config.Registry, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}

	lmem.mem.config.Lock()
	defer lmem.mem.config.Unlock()

	if lmem.mem.config.val == nil {
		lmem.mem.config.val = config.DefaultRegistry()
	}

	cfg := *lmem.mem.config.val
	return &cfg, nil
}

func (lmem *lockedMemRepo) SetConfig(c func(*config.Registry)) error {
	if err := lmem.checkToken(); err != nil {
		return err
	}

	lmem.mem.config.Lock()
	defer lmem.mem.config.Unlock()

	if lmem.mem.config.val == nil {
		lmem.mem.config.val = config.DefaultRegistry()
	}

	c(lmem.mem.config.val)

	return nil
}

func (lmem *lockedMemRepo) SetAPIEndpoint(ep string) error {
	if err := lmem.checkToken(); err != nil {
		return err
	}
	lmem.mem.api.Lock()
	lmem.mem.api.endpoint = ep
	lmem.mem.api.Unlock()
	return nil
}
