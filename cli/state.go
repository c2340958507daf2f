package cli

import (
	"github.com/ipfs/go-cid"
	ufcli "github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

var StateCmd = &ufcli.Command{
	Name:  "state",
	Usage: "Inspect the registry state",
	Subcommands: []*ufcli.Command{
		StateHeadCmd,
		StateNonceCmd,
		StateMessageCmd,
	},
}

var StateHeadCmd = &ufcli.Command{
	Name:  "head",
	Usage: "Print the current state root",
	Action: func(cctx *ufcli.Context) error {
		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		head, err := a.RegistryHead(ReqContext(cctx))
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		afmt.Printf("root:   %s\n", head.Root)
		afmt.Printf("epoch:  %d\n", head.Epoch)
		afmt.Printf("height: %d\n", head.Height)
		afmt.Printf("owner:  %s (%s)\n", head.Owner, head.OwnerDID)
		return nil
	},
}

var StateNonceCmd = &ufcli.Command{
	Name:      "nonce",
	Usage:     "Print the number of successful registry changes made by an address",
	ArgsUsage: "<address>",
	Action: func(cctx *ufcli.Context) error {
		if cctx.NArg() != 1 {
			return IncorrectNumArgs(cctx)
		}
		addr, err := types.NewFromString(cctx.Args().First())
		if err != nil {
			return err
		}

		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		n, err := a.RegistryNonce(ReqContext(cctx), addr)
		if err != nil {
			return err
		}
		NewAppFmt(cctx.App).Println(n)
		return nil
	},
}

var StateMessageCmd = &ufcli.Command{
	Name:      "message",
	Usage:     "Print an applied message and its receipt",
	ArgsUsage: "<message cid>",
	Action: func(cctx *ufcli.Context) error {
		if cctx.NArg() != 1 {
			return IncorrectNumArgs(cctx)
		}
		mcid, err := cid.Decode(cctx.Args().First())
		if err != nil {
			return xerrors.Errorf("parsing message cid: %w", err)
		}

		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		ml, err := a.RegistryMessage(ReqContext(cctx), mcid)
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		afmt.Printf("from:    %s\n", ml.Message.From)
		afmt.Printf("method:  %s (%d)\n", didregistry.MethodName(ml.Message.Method), ml.Message.Method)
		printResult(afmt, &ml.ApplyResult)
		return nil
	},
}
