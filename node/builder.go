package node

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/chain/store"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/chain/vm"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
	"github.com/Veric-Protocol/pbc-did-registry/node/impl"
	"github.com/Veric-Protocol/pbc-did-registry/node/modules"
	"github.com/Veric-Protocol/pbc-did-registry/node/modules/dtypes"
	"github.com/Veric-Protocol/pbc-did-registry/node/modules/helpers"
	"github.com/Veric-Protocol/pbc-did-registry/node/repo"
)

//nolint:deadcode,varcheck
var log = logging.Logger("builder")

type invoke int

// Invokes are called in the order they are defined.
//
//nolint:golint
const (
	RecordInfoKey = invoke(iota)
	HeadChangeLoggerKey

	// daemon
	ExtractApiKey
	SetApiEndpointKey

	_nInvokes // keep this last
)

type Settings struct {
	// modules is a map of constructors for DI
	//
	// In most cases the index will be a reflect. Type of element returned by
	// the constructor, but for some 'constructors' it's hard to specify what's
	// the return type should be (or the constructor returns fx group)
	modules map[interface{}]fx.Option

	// invokes are separate from modules as they can't be referenced by return
	// type, and must be applied in correct order
	invokes []fx.Option

	cfg *config.Registry

	Config bool // Config option applied
	Repo   bool // Repo option applied
}

func defaults() []Option {
	return []Option{
		Override(new(helpers.MetricsCtx), context.Background),
		Override(new(clock.Clock), clock.New),

		Override(RecordInfoKey, modules.RecordNodeInfo),
	}
}

func isConfigured(s *Settings) bool { return s.Config }

// Config applies cfg to the node.
func Config(cfg *config.Registry) Option {
	return func(s *Settings) error {
		if err := cfg.Validate(); err != nil {
			return xerrors.Errorf("invalid config: %w", err)
		}
		s.Config = true
		s.cfg = cfg
		return Override(new(*config.Registry), cfg)(s)
	}
}

// Repo opens the registry store held in r.
func Repo(r repo.Repo) Option {
	return func(settings *Settings) error {
		lr, err := r.Lock()
		if err != nil {
			return err
		}
		c, err := lr.Config()
		if err != nil {
			return err
		}

		return Options(
			func(s *Settings) error { s.Repo = true; return nil },

			Override(new(repo.LockedRepo), modules.LockedRepo(lr)), // module handles closing

			Override(new(dtypes.MetadataDS), modules.Datastore),
			Override(new(dtypes.ChainBlockstore), modules.ChainBlockstore),

			Override(SetApiEndpointKey, modules.SetApiEndpoint),

			ApplyIf(func(s *Settings) bool { return !isConfigured(s) },
				Config(c),
			),
		)(settings)
	}
}

// Deployer overrides the configured deployer address.
func Deployer(a types.Address) Option {
	return withConfig("Deployer", func(cfg *config.Registry) {
		cfg.Chain.Deployer = a.String()
	})
}

// APIListenAddress overrides the configured API listen address.
func APIListenAddress(addr string) Option {
	return withConfig("APIListenAddress", func(cfg *config.Registry) {
		cfg.API.ListenAddress = addr
	})
}

// withConfig reapplies a copy of the current config changed by mutate.
func withConfig(name string, mutate func(cfg *config.Registry)) Option {
	return Options(
		ApplyIf(func(s *Settings) bool { return !isConfigured(s) },
			Error(xerrors.Errorf("the %s option must be set after Config or Repo", name)),
		),
		ApplyIf(isConfigured, func(s *Settings) error {
			cfg := *s.cfg
			mutate(&cfg)
			return Config(&cfg)(s)
		}),
	)
}

// Registry builds the registry node and stores its API in out.
func Registry(out *api.Registry) Option {
	return Options(
		ApplyIf(func(s *Settings) bool { return !s.Repo },
			Error(xerrors.New("the Registry option requires a Repo")),
		),

		Override(new(*store.ChainStore), modules.ChainStore),
		Override(new(*vm.VM), modules.RegistryVM),
		Override(new(*impl.RegistryAPI), modules.RegistryAPI),

		Override(HeadChangeLoggerKey, modules.HeadChangeLogger),

		func(s *Settings) error {
			s.invokes[ExtractApiKey] = fx.Invoke(func(a *impl.RegistryAPI) {
				*out = a
			})
			return nil
		},
	)
}

type StopFunc func(context.Context) error

// New builds and starts new registry node
func New(ctx context.Context, opts ...Option) (StopFunc, error) {
	settings := Settings{
		modules: map[interface{}]fx.Option{},
		invokes: make([]fx.Option, _nInvokes),
	}

	// apply module options in the right order
	if err := Options(Options(defaults()...), Options(opts...))(&settings); err != nil {
		return nil, xerrors.Errorf("applying node options failed: %w", err)
	}

	// gather constructors for fx.Options
	ctors := make([]fx.Option, 0, len(settings.modules))
	for _, opt := range settings.modules {
		ctors = append(ctors, opt)
	}

	// fill holes in invokes for use in fx.Options
	for i, opt := range settings.invokes {
		if opt == nil {
			settings.invokes[i] = fx.Options()
		}
	}

	app := fx.New(
		fx.Options(ctors...),
		fx.Options(settings.invokes...),

		fx.NopLogger,
	)

	if err := app.Start(ctx); err != nil {
		// comment fx.NopLogger few lines above for easier debugging
		return nil, xerrors.Errorf("starting node: %w", err)
	}

	return app.Stop, nil
}
