package cli

import (
	ufcli "github.com/urfave/cli/v2"

	"github.com/Veric-Protocol/pbc-did-registry/build"
)

var VersionCmd = &ufcli.Command{
	Name:  "version",
	Usage: "Print version",
	Action: func(cctx *ufcli.Context) error {
		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		ctx := ReqContext(cctx)
		v, err := a.Version(ctx)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		afmt.Println("Daemon: ", v)
		afmt.Print("Local: ")
		ufcli.VersionPrinter(cctx)
		afmt.Println("API:   ", build.RegistryAPIVersion)
		if !v.APIVersion.EqMajorMinor(build.RegistryAPIVersion) {
			log.Warnw("daemon api version differs", "daemon", v.APIVersion, "local", build.RegistryAPIVersion)
		}
		return nil
	},
}
