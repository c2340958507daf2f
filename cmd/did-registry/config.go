package main

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	lcli "github.com/Veric-Protocol/pbc-did-registry/cli"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
	"github.com/Veric-Protocol/pbc-did-registry/node/repo"
)

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "Manage node config",
	Subcommands: []*cli.Command{
		configDefaultCmd,
		configUpdateCmd,
	},
}

var configDefaultCmd = &cli.Command{
	Name:  "default",
	Usage: "Print default node config",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-comment",
			Usage: "don't comment default values",
		},
	},
	Action: func(cctx *cli.Context) error {
		c := config.DefaultRegistry()

		if cctx.Bool("no-comment") {
			buf := new(bytes.Buffer)
			_, _ = buf.WriteString("# Default config:\n")
			e := toml.NewEncoder(buf)
			if err := e.Encode(c); err != nil {
				return xerrors.Errorf("encoding default config: %w", err)
			}

			fmt.Println(buf.String())
			return nil
		}

		cb, err := config.ConfigComment(c)
		if err != nil {
			return err
		}

		fmt.Println(string(cb))

		return nil
	},
}

var configUpdateCmd = &cli.Command{
	Name:  "updated",
	Usage: "Print the config of the repo, environment overrides applied",
	Action: func(cctx *cli.Context) error {
		r, err := repo.NewFS(cctx.String(lcli.RepoFlag.Name))
		if err != nil {
			return err
		}

		ok, err := r.Exists()
		if err != nil {
			return err
		}
		if !ok {
			return xerrors.Errorf("repo not initialized")
		}

		lr, err := r.Lock()
		if err != nil {
			return xerrors.Errorf("locking repo: %w", err)
		}
		defer func() {
			if err := lr.Close(); err != nil {
				log.Errorw("closing repo", "error", err)
			}
		}()

		cfg, err := lr.Config()
		if err != nil {
			return xerrors.Errorf("getting node config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Warnw("config is invalid", "error", err)
		}

		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
			return xerrors.Errorf("encoding config: %w", err)
		}
		fmt.Println(buf.String())
		return nil
	},
}
