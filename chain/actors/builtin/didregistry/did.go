package didregistry

import (
	"encoding/hex"
	"strings"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

const (
	DIDScheme = "did"
	DIDMethod = "metablox"

	// DefaultIssuerAttribute is attached to the deployer's DID at construction.
	DefaultIssuerAttribute = "Issuer"
)

// ValidateDID checks the external form did:metablox:<method-specific-id>.
// The method specific id is opaque and is not inspected.
func ValidateDID(did string) aerrors.ActorError {
	parts := strings.Split(did, ":")
	if len(parts) != 3 {
		return aerrors.Newf(ErrDIDFormat, "DID format incorrect: got %d parts, expected 3", len(parts))
	}
	if parts[0] != DIDScheme {
		return aerrors.Newf(ErrDIDFormat, "DID format incorrect: scheme must be %q, got %q", DIDScheme, parts[0])
	}
	if parts[1] != DIDMethod {
		return aerrors.Newf(ErrDIDFormat, "DID format incorrect: method must be %q, got %q", DIDMethod, parts[1])
	}
	return nil
}

// DeriveDID returns the canonical DID of an account:
// did:metablox:0x<hex(type ++ identifier)>.
func DeriveDID(a types.Address) string {
	return DIDScheme + ":" + DIDMethod + ":0x" + hex.EncodeToString(a.Bytes())
}
