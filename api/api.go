package api

import (
	"context"

	"github.com/ipfs/go-cid"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/build"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

//go:generate go run github.com/golang/mock/mockgen -destination=mocks/mock_registry.go -package=mocks . Registry

// Registry is the API of a node hosting a DID registry.
//
// Mutating methods return an ApplyResult for every message the node applied;
// a registry failure is reported in its receipt, not as an error. Errors are
// reserved for calls the node could not process at all.
type Registry interface {
	// Version returns the node and api version.
	Version(context.Context) (APIVersion, error)

	// RegistryHead returns the current state root and the registry owner.
	RegistryHead(context.Context) (*RegistryHead, error)

	// RegistryApply applies a raw message: caller, method number and CBOR
	// encoded params.
	RegistryApply(ctx context.Context, msg *types.Message) (*ApplyResult, error)

	RegistryRegisterDID(ctx context.Context, from types.Address, did string) (*ApplyResult, error)
	RegistrySetAttribute(ctx context.Context, from types.Address, did string, attrs []string) (*ApplyResult, error)
	RegistryChangeOwner(ctx context.Context, from types.Address, did string, newOwner types.Address) (*ApplyResult, error)
	// RegistryAddDelegate grants delegate write access to the attributes of
	// did for expireIn time units from now.
	RegistryAddDelegate(ctx context.Context, from types.Address, did string, delegate types.Address, expireIn int64) (*ApplyResult, error)

	// RegistryDidLookup returns the controller of did, the zero account if
	// it is not registered.
	RegistryDidLookup(ctx context.Context, did string) (types.Address, error)
	// RegistryGetAttribute returns the attributes of did. An unknown did
	// is an ErrAborted with the DidNotFound exit code.
	RegistryGetAttribute(ctx context.Context, did string) ([]string, error)

	RegistryNonce(ctx context.Context, addr types.Address) (uint64, error)
	RegistryDelegates(ctx context.Context, did string) ([]didregistry.DelegateInfo, error)

	// RegistryMessage looks up a previously applied message by cid.
	RegistryMessage(ctx context.Context, mcid cid.Cid) (*MessageLookup, error)
}

// APIVersion provides various build-time information
type APIVersion struct {
	Version string

	// APIVersion is a binary encoded semver version of the remote implementing
	// this api
	//
	// See APIVersion in build/version.go
	APIVersion build.Version
}

func (v APIVersion) String() string {
	return v.Version + "+api" + v.APIVersion.String()
}

type RegistryHead struct {
	Root     cid.Cid
	Epoch    abi.ChainEpoch
	Height   uint64
	Owner    types.Address
	OwnerDID string
}

// ApplyResult is the outcome of one applied message.
type ApplyResult struct {
	Message cid.Cid
	Receipt types.MessageReceipt
	// ExitName is the readable name of Receipt.ExitCode.
	ExitName string
	// Error carries the abort message of a failed call.
	Error string

	Root   cid.Cid
	Epoch  abi.ChainEpoch
	Height uint64
}

func (r *ApplyResult) Ok() bool {
	return r.Receipt.ExitCode == exitcode.Ok
}

type MessageLookup struct {
	Message *types.Message
	ApplyResult
}
