package api

import (
	"encoding/json"
	"fmt"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
)

const (
	EAborted = iota + jsonrpc.FirstUserCode
	ENotDeployed
)

var (
	RPCErrors = jsonrpc.NewErrors()

	// ErrNotDeployed signals the node has no registry state yet.
	ErrNotDeployed = &errNotDeployed{}

	_ error = (*ErrAborted)(nil)
	_ error = (*errNotDeployed)(nil)
)

func init() {
	RPCErrors.Register(EAborted, new(*ErrAborted))
	RPCErrors.Register(ENotDeployed, new(*errNotDeployed))
}

// ErrAborted signals a read-only registry call exited with a non-zero code.
type ErrAborted struct {
	ExitCode exitcode.ExitCode
	Message  string
}

func (e *ErrAborted) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("registry call aborted: %s", didregistry.ExitCodeName(e.ExitCode))
	}
	return fmt.Sprintf("registry call aborted (%s): %s", didregistry.ExitCodeName(e.ExitCode), e.Message)
}

// MarshalJSON and UnmarshalJSON carry the exit code across the rpc boundary.
func (e *ErrAborted) MarshalJSON() ([]byte, error) {
	type raw ErrAborted
	return json.Marshal((*raw)(e))
}

func (e *ErrAborted) UnmarshalJSON(b []byte) error {
	type raw ErrAborted
	return json.Unmarshal(b, (*raw)(e))
}

type errNotDeployed struct{}

func (errNotDeployed) Error() string { return "registry is not deployed" }
