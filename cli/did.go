package cli

import (
	"strconv"

	"github.com/fatih/color"
	ufcli "github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

var DIDCmd = &ufcli.Command{
	Name:  "did",
	Usage: "Register and manage DIDs",
	Subcommands: []*ufcli.Command{
		didRegisterCmd,
		didSetAttrCmd,
		didChangeOwnerCmd,
		didAddDelegateCmd,
		didLookupCmd,
		didAttrsCmd,
		didDelegatesCmd,
		didDeriveCmd,
	},
}

func parseFrom(cctx *ufcli.Context) (types.Address, error) {
	from, err := types.NewFromString(cctx.String(fromFlag.Name))
	if err != nil {
		return types.Address{}, xerrors.Errorf("parsing from address: %w", err)
	}
	return from, nil
}

// applyCmd wraps a mutating command: it runs apply with the sender and the
// api, then prints its result.
func applyCmd(nargs int, apply func(cctx *ufcli.Context, a api.Registry, from types.Address) (*api.ApplyResult, error)) ufcli.ActionFunc {
	return func(cctx *ufcli.Context) error {
		if nargs >= 0 && cctx.NArg() != nargs {
			return IncorrectNumArgs(cctx)
		}
		if nargs < 0 && cctx.NArg() < 1 {
			return IncorrectNumArgs(cctx)
		}

		from, err := parseFrom(cctx)
		if err != nil {
			return err
		}

		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		res, err := apply(cctx, a, from)
		if err != nil {
			return err
		}
		printResult(NewAppFmt(cctx.App), res)
		// a failed receipt fails the command, so scripts can rely on the exit status
		if !res.Ok() {
			return xerrors.Errorf("message failed: %s", res.ExitName)
		}
		return nil
	}
}

var didRegisterCmd = &ufcli.Command{
	Name:      "register",
	Usage:     "Register a DID controlled by the sender",
	ArgsUsage: "<did>",
	Flags:     []ufcli.Flag{fromFlag},
	Action: applyCmd(1, func(cctx *ufcli.Context, a api.Registry, from types.Address) (*api.ApplyResult, error) {
		return a.RegistryRegisterDID(ReqContext(cctx), from, cctx.Args().First())
	}),
}

var didSetAttrCmd = &ufcli.Command{
	Name:      "set-attr",
	Usage:     "Replace the attributes of a DID",
	ArgsUsage: "<did> [attribute...]",
	Flags:     []ufcli.Flag{fromFlag},
	Action: applyCmd(-1, func(cctx *ufcli.Context, a api.Registry, from types.Address) (*api.ApplyResult, error) {
		attrs := cctx.Args().Tail()
		if attrs == nil {
			attrs = []string{}
		}
		return a.RegistrySetAttribute(ReqContext(cctx), from, cctx.Args().First(), attrs)
	}),
}

var didChangeOwnerCmd = &ufcli.Command{
	Name:      "change-owner",
	Usage:     "Hand control of a DID to another address",
	ArgsUsage: "<did> <new owner>",
	Flags:     []ufcli.Flag{fromFlag},
	Action: applyCmd(2, func(cctx *ufcli.Context, a api.Registry, from types.Address) (*api.ApplyResult, error) {
		owner, err := types.NewFromString(cctx.Args().Get(1))
		if err != nil {
			return nil, xerrors.Errorf("parsing new owner: %w", err)
		}
		return a.RegistryChangeOwner(ReqContext(cctx), from, cctx.Args().First(), owner)
	}),
}

var didAddDelegateCmd = &ufcli.Command{
	Name:      "add-delegate",
	Usage:     "Grant an address write access to the attributes of a DID",
	ArgsUsage: "<did> <delegate> <expire in>",
	Flags:     []ufcli.Flag{fromFlag},
	Action: applyCmd(3, func(cctx *ufcli.Context, a api.Registry, from types.Address) (*api.ApplyResult, error) {
		delegate, err := types.NewFromString(cctx.Args().Get(1))
		if err != nil {
			return nil, xerrors.Errorf("parsing delegate: %w", err)
		}
		expireIn, err := strconv.ParseInt(cctx.Args().Get(2), 10, 64)
		if err != nil {
			return nil, xerrors.Errorf("parsing expire in: %w", err)
		}
		return a.RegistryAddDelegate(ReqContext(cctx), from, cctx.Args().First(), delegate, expireIn)
	}),
}

var didLookupCmd = &ufcli.Command{
	Name:      "lookup",
	Usage:     "Print the controller of a DID",
	ArgsUsage: "<did>",
	Action: func(cctx *ufcli.Context) error {
		if cctx.NArg() != 1 {
			return IncorrectNumArgs(cctx)
		}

		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		ctl, err := a.RegistryDidLookup(ReqContext(cctx), cctx.Args().First())
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		if ctl == types.ZeroAccount {
			afmt.Println(color.YellowString("%s (not registered)", ctl))
			return nil
		}
		afmt.Println(ctl)
		return nil
	},
}

var didAttrsCmd = &ufcli.Command{
	Name:      "attrs",
	Usage:     "Print the attributes of a DID, one per line",
	ArgsUsage: "<did>",
	Action: func(cctx *ufcli.Context) error {
		if cctx.NArg() != 1 {
			return IncorrectNumArgs(cctx)
		}

		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		attrs, err := a.RegistryGetAttribute(ReqContext(cctx), cctx.Args().First())
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		for _, attr := range attrs {
			afmt.Println(attr)
		}
		return nil
	},
}

var didDelegatesCmd = &ufcli.Command{
	Name:      "delegates",
	Usage:     "List the delegates of a DID and when their grants expire",
	ArgsUsage: "<did>",
	Action: func(cctx *ufcli.Context) error {
		if cctx.NArg() != 1 {
			return IncorrectNumArgs(cctx)
		}

		a, closer, err := GetRegistryAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		ctx := ReqContext(cctx)
		head, err := a.RegistryHead(ctx)
		if err != nil {
			return err
		}
		dels, err := a.RegistryDelegates(ctx, cctx.Args().First())
		if err != nil {
			return err
		}

		afmt := NewAppFmt(cctx.App)
		for _, d := range dels {
			exp := EpochTime(head.Epoch, d.ExpiresAt)
			if d.ExpiresAt < head.Epoch {
				exp = color.RedString(exp)
			}
			afmt.Printf("%s\t%s\n", d.Delegate, exp)
		}
		return nil
	},
}

var didDeriveCmd = &ufcli.Command{
	Name:      "derive",
	Usage:     "Print the canonical DID of an address",
	ArgsUsage: "<address>",
	Action: func(cctx *ufcli.Context) error {
		if cctx.NArg() != 1 {
			return IncorrectNumArgs(cctx)
		}
		addr, err := types.NewFromString(cctx.Args().First())
		if err != nil {
			return err
		}
		NewAppFmt(cctx.App).Println(didregistry.DeriveDID(addr))
		return nil
	},
}
