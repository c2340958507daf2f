package modules

import (
	"context"

	"github.com/raulk/clock"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/Veric-Protocol/pbc-did-registry/chain/store"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/chain/vm"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
	"github.com/Veric-Protocol/pbc-did-registry/node/impl"
	"github.com/Veric-Protocol/pbc-did-registry/node/modules/dtypes"
	"github.com/Veric-Protocol/pbc-did-registry/node/modules/helpers"
)

// ChainStore opens the registry store and loads its head, if any.
func ChainStore(lc fx.Lifecycle, mctx helpers.MetricsCtx, bs dtypes.ChainBlockstore, ds dtypes.MetadataDS) (*store.ChainStore, error) {
	cs := store.NewChainStore(bs, ds)
	if err := cs.Load(helpers.LifecycleCtx(mctx, lc)); err != nil && !xerrors.Is(err, store.ErrNoHead) {
		return nil, xerrors.Errorf("loading registry head: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cs.Close(ctx)
		},
	})
	return cs, nil
}

// RegistryVM positions a vm at the stored head. A store without a head is
// deployed to on behalf of Chain.Deployer.
func RegistryVM(lc fx.Lifecycle, mctx helpers.MetricsCtx, cs *store.ChainStore, cfg *config.Registry, clk clock.Clock) (*vm.VM, error) {
	ctx := helpers.LifecycleCtx(mctx, lc)

	if head, ok := cs.GetHead(); ok {
		return vm.NewVM(ctx, cs.Blockstore(), head.Root)
	}

	if cfg.Chain.Deployer == "" {
		return nil, xerrors.New("registry is not deployed and Chain.Deployer is not set")
	}
	deployer, err := types.NewFromString(cfg.Chain.Deployer)
	if err != nil {
		return nil, xerrors.Errorf("parsing Chain.Deployer: %w", err)
	}

	epoch := abi.ChainEpoch(clk.Now().Unix())
	v, err := vm.Deploy(ctx, cs.Blockstore(), deployer, epoch)
	if err != nil {
		return nil, err
	}
	if err := cs.SetHead(ctx, store.Head{Root: v.StateRoot(), Epoch: epoch}); err != nil {
		return nil, xerrors.Errorf("storing deployed head: %w", err)
	}

	log.Infow("deployed registry", "deployer", deployer, "root", v.StateRoot(), "epoch", epoch)
	return v, nil
}

func RegistryAPI(cs *store.ChainStore, v *vm.VM, clk clock.Clock, cfg *config.Registry) *impl.RegistryAPI {
	return impl.NewRegistryAPI(cs, v, clk, cfg.Chain.StrictTime)
}

// HeadChangeLogger logs every head move at debug level.
func HeadChangeLogger(cs *store.ChainStore) {
	cs.SubscribeHeadChanges(func(prev, next store.Head) error {
		log.Debugw("registry head changed",
			"from", prev.Root,
			"to", next.Root,
			"epoch", next.Epoch,
			"height", next.Height)
		return nil
	})
}
