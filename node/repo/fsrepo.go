package repo

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	dssync "github.com/ipfs/go-datastore/sync"
	levelds "github.com/ipfs/go-ds-leveldb"
	measure "github.com/ipfs/go-ds-measure"
	fslock "github.com/ipfs/go-fs-lock"
	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
)

const (
	fsAPI       = "api"
	fsConfig    = "config.toml"
	fsDatastore = "datastore"
	fsLock      = "repo.lock"
)

// DefaultPath is where the daemon keeps its repo unless told otherwise.
const DefaultPath = "~/.did-registry"

var metadataNs = datastore.NewKey("/metadata")

var log = logging.Logger("repo")

var ErrRepoExists = xerrors.New("repo exists")

// FsRepo is struct for repo, use NewFS to create
type FsRepo struct {
	path       string
	configPath string
}

var _ Repo = &FsRepo{}

// NewFS creates a repo instance based on a path on file system
func NewFS(path string) (*FsRepo, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	return &FsRepo{
		path:       path,
		configPath: filepath.Join(path, fsConfig),
	}, nil
}

func (fsr *FsRepo) SetConfigPath(cfgPath string) {
	fsr.configPath = cfgPath
}

func (fsr *FsRepo) Path() string {
	return fsr.path
}

func (fsr *FsRepo) Exists() (bool, error) {
	_, err := os.Stat(filepath.Join(fsr.path, fsDatastore))
	notexist := os.IsNotExist(err)
	if notexist {
		err = nil
	}
	return !notexist, err
}

// Init creates the repo directory with a default config. It returns
// ErrRepoExists if a datastore is already there.
func (fsr *FsRepo) Init(def *config.Registry) error {
	exist, err := fsr.Exists()
	if err != nil {
		return err
	}
	if exist {
		return ErrRepoExists
	}

	log.Infof("Initializing repo at '%s'", fsr.path)
	err = os.MkdirAll(fsr.path, 0755) //nolint: gosec
	if err != nil && !os.IsExist(err) {
		return err
	}

	if err := fsr.initConfig(def); err != nil {
		return xerrors.Errorf("init config: %w", err)
	}

	return os.Mkdir(filepath.Join(fsr.path, fsDatastore), 0755)
}

func (fsr *FsRepo) initConfig(def *config.Registry) error {
	_, err := os.Stat(fsr.configPath)
	if err == nil {
		// exists
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	c, err := os.Create(fsr.configPath)
	if err != nil {
		return err
	}

	comm, err := config.ConfigComment(def)
	if err != nil {
		return xerrors.Errorf("comment: %w", err)
	}
	_, err = c.Write(comm)
	if err != nil {
		return xerrors.Errorf("write config: %w", err)
	}

	if err := c.Close(); err != nil {
		return xerrors.Errorf("close config: %w", err)
	}
	return nil
}

// APIEndpoint returns endpoint of API in this repo
func (fsr *FsRepo) APIEndpoint() (string, error) {
	p := filepath.Join(fsr.path, fsAPI)

	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return "", ErrNoAPIEndpoint
	} else if err != nil {
		return "", err
	}
	defer f.Close() //nolint: errcheck // Read only op

	data, err := io.ReadAll(f)
	if err != nil {
		return "", xerrors.Errorf("failed to read %q: %w", p, err)
	}
	ep := strings.TrimSpace(string(data))
	if ep == "" {
		return "", ErrNoAPIEndpoint
	}
	return ep, nil
}

// Lock acquires exclusive lock on this repo
func (fsr *FsRepo) Lock() (LockedRepo, error) {
	locked, err := fslock.Locked(fsr.path, fsLock)
	if err != nil {
		return nil, xerrors.Errorf("could not check lock status: %w", err)
	}
	if locked {
		return nil, ErrRepoAlreadyLocked
	}

	closer, err := fslock.Lock(fsr.path, fsLock)
	if err != nil {
		return nil, xerrors.Errorf("could not lock the repo: %w", err)
	}
	return &fsLockedRepo{
		path:       fsr.path,
		configPath: fsr.configPath,
		closer:     closer,
	}, nil
}

type fsLockedRepo struct {
	path       string
	configPath string
	closer     io.Closer

	ds     datastore.Batching
	dsErr  error
	dsOnce sync.Once

	configLk sync.Mutex
}

func (fsr *fsLockedRepo) Path() string {
	return fsr.path
}

func (fsr *fsLockedRepo) Close() error {
	err := os.Remove(fsr.join(fsAPI))

	if err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("could not remove API file: %w", err)
	}
	if fsr.ds != nil {
		if err := fsr.ds.Close(); err != nil {
			return xerrors.Errorf("could not close datastore: %w", err)
		}
	}

	err = fsr.closer.Close()
	fsr.closer = nil
	return err
}

// openDatastore opens the single datastore backing both the metadata
// datastore and the blockstore. A memory datastore is dropped on Close.
func (fsr *fsLockedRepo) openDatastore() (datastore.Batching, error) {
	fsr.dsOnce.Do(func() {
		cfg, err := fsr.Config()
		if err != nil {
			fsr.dsErr = err
			return
		}
		if cfg.Datastore.Type == config.DatastoreMemory {
			log.Warnw("using an in-memory datastore, registry state will not survive a restart", "repo", fsr.path)
			fsr.ds = measure.New("didregistry.datastore.", dssync.MutexWrap(datastore.NewMapDatastore()))
			return
		}

		path := fsr.join(fsDatastore)
		if err := os.MkdirAll(path, 0755); err != nil {
			fsr.dsErr = err
			return
		}

		ds, err := levelds.NewDatastore(path, &levelds.Options{
			Compression: ldbopts.NoCompression,
			NoSync:      false,
			Strict:      ldbopts.StrictAll,
		})
		if err != nil {
			fsr.dsErr = xerrors.Errorf("opening leveldb datastore at %s: %w", path, err)
			return
		}
		// Keep statistics about the datastore
		fsr.ds = measure.New("didregistry.datastore.", ds)
	})
	return fsr.ds, fsr.dsErr
}

func (fsr *fsLockedRepo) Datastore(_ context.Context) (datastore.Batching, error) {
	if err := fsr.stillValid(); err != nil {
		return nil, err
	}
	ds, err := fsr.openDatastore()
	if err != nil {
		return nil, err
	}
	return namespace.Wrap(ds, metadataNs), nil
}

func (fsr *fsLockedRepo) Blockstore(_ context.Context) (blockstore.Blockstore, error) {
	if err := fsr.stillValid(); err != nil {
		return nil, err
	}
	ds, err := fsr.openDatastore()
	if err != nil {
		return nil, err
	}
	return blockstore.FromDatastore(ds), nil
}

// join joins path elements with fsr.path
func (fsr *fsLockedRepo) join(paths ...string) string {
	return filepath.Join(append([]string{fsr.path}, paths...)...)
}

func (fsr *fsLockedRepo) stillValid() error {
	if fsr.closer == nil {
		return ErrClosedRepo
	}
	return nil
}

func (fsr *fsLockedRepo) Config() (*config.Registry, error) {
	fsr.configLk.Lock()
	defer fsr.configLk.Unlock()

	return fsr.loadConfigFromDisk()
}

func (fsr *fsLockedRepo) loadConfigFromDisk() (*config.Registry, error) {
	return config.FromFile(fsr.configPath, config.DefaultRegistry())
}

func (fsr *fsLockedRepo) SetConfig(c func(*config.Registry)) error {
	if err := fsr.stillValid(); err != nil {
		return err
	}

	fsr.configLk.Lock()
	defer fsr.configLk.Unlock()

	cfg, err := fsr.loadConfigFromDisk()
	if err != nil {
		return err
	}

	// mutate in-memory representation of config
	c(cfg)

	// buffer into which we write TOML bytes
	buf := new(bytes.Buffer)

	// encode now-mutated config as TOML and write to buffer
	err = toml.NewEncoder(buf).Encode(cfg)
	if err != nil {
		return err
	}

	// write buffer of TOML bytes to config file
	return os.WriteFile(fsr.configPath, buf.Bytes(), 0644)
}

func (fsr *fsLockedRepo) SetAPIEndpoint(ep string) error {
	if err := fsr.stillValid(); err != nil {
		return err
	}
	return os.WriteFile(fsr.join(fsAPI), []byte(ep), 0644)
}
