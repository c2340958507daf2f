package api

import (
	"context"

	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

var ErrNotSupported = xerrors.New("method not supported")

// RegistryStruct implements Registry passing calls to user-provided function
// values. The jsonrpc client fills Internal.
type RegistryStruct struct {
	Internal RegistryMethods
}

type RegistryMethods struct {
	Version func(p0 context.Context) (APIVersion, error)

	RegistryHead func(p0 context.Context) (*RegistryHead, error)

	RegistryApply func(p0 context.Context, p1 *types.Message) (*ApplyResult, error)

	RegistryRegisterDID func(p0 context.Context, p1 types.Address, p2 string) (*ApplyResult, error)

	RegistrySetAttribute func(p0 context.Context, p1 types.Address, p2 string, p3 []string) (*ApplyResult, error)

	RegistryChangeOwner func(p0 context.Context, p1 types.Address, p2 string, p3 types.Address) (*ApplyResult, error)

	RegistryAddDelegate func(p0 context.Context, p1 types.Address, p2 string, p3 types.Address, p4 int64) (*ApplyResult, error)

	RegistryDidLookup func(p0 context.Context, p1 string) (types.Address, error)

	RegistryGetAttribute func(p0 context.Context, p1 string) ([]string, error)

	RegistryNonce func(p0 context.Context, p1 types.Address) (uint64, error)

	RegistryDelegates func(p0 context.Context, p1 string) ([]didregistry.DelegateInfo, error)

	RegistryMessage func(p0 context.Context, p1 cid.Cid) (*MessageLookup, error)
}

func (s *RegistryStruct) Version(p0 context.Context) (APIVersion, error) {
	if s.Internal.Version == nil {
		return *new(APIVersion), ErrNotSupported
	}
	return s.Internal.Version(p0)
}

func (s *RegistryStruct) RegistryHead(p0 context.Context) (*RegistryHead, error) {
	if s.Internal.RegistryHead == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.RegistryHead(p0)
}

func (s *RegistryStruct) RegistryApply(p0 context.Context, p1 *types.Message) (*ApplyResult, error) {
	if s.Internal.RegistryApply == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.RegistryApply(p0, p1)
}

func (s *RegistryStruct) RegistryRegisterDID(p0 context.Context, p1 types.Address, p2 string) (*ApplyResult, error) {
	if s.Internal.RegistryRegisterDID == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.RegistryRegisterDID(p0, p1, p2)
}

func (s *RegistryStruct) RegistrySetAttribute(p0 context.Context, p1 types.Address, p2 string, p3 []string) (*ApplyResult, error) {
	if s.Internal.RegistrySetAttribute == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.RegistrySetAttribute(p0, p1, p2, p3)
}

func (s *RegistryStruct) RegistryChangeOwner(p0 context.Context, p1 types.Address, p2 string, p3 types.Address) (*ApplyResult, error) {
	if s.Internal.RegistryChangeOwner == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.RegistryChangeOwner(p0, p1, p2, p3)
}

func (s *RegistryStruct) RegistryAddDelegate(p0 context.Context, p1 types.Address, p2 string, p3 types.Address, p4 int64) (*ApplyResult, error) {
	if s.Internal.RegistryAddDelegate == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.RegistryAddDelegate(p0, p1, p2, p3, p4)
}

func (s *RegistryStruct) RegistryDidLookup(p0 context.Context, p1 string) (types.Address, error) {
	if s.Internal.RegistryDidLookup == nil {
		return *new(types.Address), ErrNotSupported
	}
	return s.Internal.RegistryDidLookup(p0, p1)
}

func (s *RegistryStruct) RegistryGetAttribute(p0 context.Context, p1 string) ([]string, error) {
	if s.Internal.RegistryGetAttribute == nil {
		return *new([]string), ErrNotSupported
	}
	return s.Internal.RegistryGetAttribute(p0, p1)
}

func (s *RegistryStruct) RegistryNonce(p0 context.Context, p1 types.Address) (uint64, error) {
	if s.Internal.RegistryNonce == nil {
		return 0, ErrNotSupported
	}
	return s.Internal.RegistryNonce(p0, p1)
}

func (s *RegistryStruct) RegistryDelegates(p0 context.Context, p1 string) ([]didregistry.DelegateInfo, error) {
	if s.Internal.RegistryDelegates == nil {
		return *new([]didregistry.DelegateInfo), ErrNotSupported
	}
	return s.Internal.RegistryDelegates(p0, p1)
}

func (s *RegistryStruct) RegistryMessage(p0 context.Context, p1 cid.Cid) (*MessageLookup, error) {
	if s.Internal.RegistryMessage == nil {
		return nil, ErrNotSupported
	}
	return s.Internal.RegistryMessage(p0, p1)
}

var _ Registry = new(RegistryStruct)
