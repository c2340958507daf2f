package repo

import (
	"context"

	"github.com/ipfs/go-datastore"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
)

var (
	ErrNoAPIEndpoint     = xerrors.New("API not running (no endpoint)")
	ErrRepoAlreadyLocked = xerrors.New("repo is already locked (did-registry daemon already running)")
	ErrClosedRepo        = xerrors.New("repo is no longer open")
)

type Repo interface {
	// APIEndpoint returns the host:port the daemon API is served on
	APIEndpoint() (string, error)

	// Lock locks the repo for exclusive use.
	Lock() (LockedRepo, error)
}

type LockedRepo interface {
	// Close closes repo and removes lock.
	Close() error

	// Path returns the repo root.
	Path() string

	// Datastore returns the metadata datastore: registry head and receipts.
	Datastore(ctx context.Context) (datastore.Batching, error)

	// Blockstore returns the store registry state and messages live in.
	Blockstore(ctx context.Context) (blockstore.Blockstore, error)

	// Returns config in this repo
	Config() (*config.Registry, error)
	SetConfig(func(*config.Registry)) error

	SetAPIEndpoint(string) error
}
