package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"
	"github.com/mattn/go-isatty"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/Veric-Protocol/pbc-did-registry/api"
)

// Set the global default, to be overridden by individual cli flags in order
func init() {
	color.NoColor = os.Getenv("GOLOG_LOG_FMT") != "color" &&
		!isatty.IsTerminal(os.Stdout.Fd()) &&
		!isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// EpochTime renders e relative to curr. Registry epochs count seconds.
func EpochTime(curr, e abi.ChainEpoch) string {
	switch {
	case curr > e:
		return fmt.Sprintf("%d (%s ago)", e, durafmt.Parse(time.Second*time.Duration(curr-e)).LimitFirstN(2))
	case curr == e:
		return fmt.Sprintf("%d (now)", e)
	case curr < e:
		return fmt.Sprintf("%d (in %s)", e, durafmt.Parse(time.Second*time.Duration(e-curr)).LimitFirstN(2))
	}

	panic("math broke")
}

func exitName(r *api.ApplyResult) string {
	if r.Ok() {
		return color.GreenString(r.ExitName)
	}
	return color.RedString(r.ExitName)
}

func printResult(afmt *AppFmt, r *api.ApplyResult) {
	afmt.Printf("message: %s\n", r.Message)
	afmt.Printf("exit:    %s (%d)\n", exitName(r), r.Receipt.ExitCode)
	afmt.Printf("height:  %d\n", r.Height)
	afmt.Printf("epoch:   %d\n", r.Epoch)
	afmt.Printf("root:    %s\n", r.Root)
	if r.Error != "" {
		afmt.Printf("error:   %s\n", r.Error)
	}
}
