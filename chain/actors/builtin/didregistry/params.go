package didregistry

import (
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// DIDParams carries a single DID for register, did_lookup and get_attribute.
type DIDParams struct {
	DID string
}

type SetAttributeParams struct {
	DID        string
	Attributes []string
}

type ChangeOwnerParams struct {
	DID      string
	NewOwner types.Address
}

// AddDelegateParams grants Delegate access to DID for ExpireIn time units.
type AddDelegateParams struct {
	DID      string
	Delegate types.Address
	ExpireIn int64
}

type GetAttributeReturn struct {
	Attributes []string
}
