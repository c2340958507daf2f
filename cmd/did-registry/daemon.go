package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"
	"go.opencensus.io/stats/view"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/build"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	lcli "github.com/Veric-Protocol/pbc-did-registry/cli"
	"github.com/Veric-Protocol/pbc-did-registry/metrics"
	"github.com/Veric-Protocol/pbc-did-registry/node"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
	"github.com/Veric-Protocol/pbc-did-registry/node/repo"
)

// DaemonCmd is the `did-registry daemon` command
var DaemonCmd = &cli.Command{
	Name:  "daemon",
	Usage: "Start a registry daemon process",
	Description: `The API takes the caller address from each request and checks no
signatures, so any client can act as any account. Serve it on a trusted
host or devnet only.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "api",
			Usage: "override the API listen address",
		},
		&cli.StringFlag{
			Name:  "deployer",
			Usage: "address owning the registry, used when the repo holds no registry yet",
		},
	},
	Action: func(cctx *cli.Context) error {
		log.Infow("starting registry daemon", "version", build.UserVersion())

		ctx := context.Background()
		r, err := repo.NewFS(cctx.String(lcli.RepoFlag.Name))
		if err != nil {
			return xerrors.Errorf("opening fs repo: %w", err)
		}

		if err := r.Init(config.DefaultRegistry()); err != nil && err != repo.ErrRepoExists {
			return xerrors.Errorf("repo init error: %w", err)
		}

		if err := view.Register(metrics.DefaultViews...); err != nil {
			return xerrors.Errorf("registering metric views: %w", err)
		}

		var deployer node.Option = node.Options()
		if d := cctx.String("deployer"); d != "" {
			addr, err := types.NewFromString(d)
			if err != nil {
				return xerrors.Errorf("parsing deployer: %w", err)
			}
			deployer = node.Deployer(addr)
		}

		var (
			reg api.Registry
			lr  repo.LockedRepo
			cfg *config.Registry
		)
		stop, err := node.New(ctx,
			node.Repo(r),
			node.ApplyIf(func(s *node.Settings) bool { return cctx.IsSet("api") },
				node.APIListenAddress(cctx.String("api")),
			),
			deployer,
			node.Registry(&reg),

			// the endpoint is written once the listener is bound
			node.Override(node.SetApiEndpointKey, func(l repo.LockedRepo, c *config.Registry) {
				lr, cfg = l, c
			}),
		)
		if err != nil {
			return xerrors.Errorf("initializing node: %w", err)
		}

		h, err := node.RegistryHandler(reg, cfg)
		if err != nil {
			return xerrors.Errorf("failed to instantiate rpc handler: %w", err)
		}

		rpcStop, addr, err := node.ServeRPC(h, "did-registry-daemon", cfg.API.ListenAddress, time.Duration(cfg.API.Timeout))
		if err != nil {
			return xerrors.Errorf("failed to start json-rpc endpoint: %s", err)
		}
		if err := lr.SetAPIEndpoint(addr.String()); err != nil {
			return xerrors.Errorf("recording api endpoint: %w", err)
		}
		log.Infow("registry api listening", "addr", addr)

		// Monitor for shutdown.
		finishCh := node.MonitorShutdown(make(chan struct{}),
			node.ShutdownHandler{Component: "rpc server", StopFunc: rpcStop},
			node.ShutdownHandler{Component: "node", StopFunc: stop},
		)
		<-finishCh // fires when shutdown is complete.
		return nil
	},
}
