package modules

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.uber.org/fx"

	"github.com/Veric-Protocol/pbc-did-registry/blockstore"
	"github.com/Veric-Protocol/pbc-did-registry/build"
	"github.com/Veric-Protocol/pbc-did-registry/metrics"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
	"github.com/Veric-Protocol/pbc-did-registry/node/modules/dtypes"
	"github.com/Veric-Protocol/pbc-did-registry/node/modules/helpers"
	"github.com/Veric-Protocol/pbc-did-registry/node/repo"
)

var log = logging.Logger("modules")

func LockedRepo(lr repo.LockedRepo) func(lc fx.Lifecycle) repo.LockedRepo {
	return func(lc fx.Lifecycle) repo.LockedRepo {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return lr.Close()
			},
		})

		return lr
	}
}

// SetApiEndpoint records the configured listen address in the repo for the
// cli to find.
func SetApiEndpoint(lr repo.LockedRepo, cfg *config.Registry) error {
	return lr.SetAPIEndpoint(cfg.API.ListenAddress)
}

func Datastore(mctx helpers.MetricsCtx, lc fx.Lifecycle, r repo.LockedRepo) (dtypes.MetadataDS, error) {
	return r.Datastore(helpers.LifecycleCtx(mctx, lc))
}

func ChainBlockstore(mctx helpers.MetricsCtx, lc fx.Lifecycle, r repo.LockedRepo) (dtypes.ChainBlockstore, error) {
	bs, err := r.Blockstore(helpers.LifecycleCtx(mctx, lc))
	if err != nil {
		return nil, err
	}
	return blockstore.Blockstore(bs), nil
}

// RecordNodeInfo tags the info view with the running build.
func RecordNodeInfo(mctx helpers.MetricsCtx) error {
	ctx, err := tag.New(mctx,
		tag.Insert(metrics.Version, build.BuildVersion),
		tag.Insert(metrics.Commit, build.CurrentCommit),
		tag.Insert(metrics.NodeType, "registry"),
	)
	if err != nil {
		return err
	}
	stats.Record(ctx, metrics.RegistryInfo.M(1))
	return nil
}
