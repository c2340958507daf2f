package main

import (
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/Veric-Protocol/pbc-did-registry/build"
	lcli "github.com/Veric-Protocol/pbc-did-registry/cli"
)

var log = logging.Logger("main")

func main() {
	local := []*cli.Command{
		DaemonCmd,
		configCmd,
	}

	app := &cli.App{
		Name:                 "did-registry",
		Usage:                "DID registry node",
		Version:              build.UserVersion(),
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			lcli.RepoFlag,
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"DIDREG_LOG_LEVEL"},
				Usage:   "set the log level of every subsystem",
			},
		},
		Before: func(cctx *cli.Context) error {
			if lvl := cctx.String("log-level"); lvl != "" {
				return logging.SetLogLevel("*", lvl)
			}
			return nil
		},

		Commands: append(local, lcli.Commands...),
	}
	app.Setup()

	lcli.RunApp(app)
}
