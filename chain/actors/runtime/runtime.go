package runtime

import (
	"context"

	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// Runtime is the per-call environment the host hands to an actor method.
type Runtime interface {
	// Caller is the account that sent the message being executed.
	Caller() types.Address

	// CurrEpoch is the host supplied time value of this call. It never
	// decreases between calls.
	CurrEpoch() abi.ChainEpoch

	// StateReadonly loads the current actor state into obj.
	StateReadonly(obj cbg.CBORUnmarshaler) aerrors.ActorError

	// StateCommit stages obj as the new actor state. The staged state only
	// becomes visible if the method returns without an error.
	StateCommit(obj cbg.CBORMarshaler) aerrors.ActorError

	Context() context.Context
}
