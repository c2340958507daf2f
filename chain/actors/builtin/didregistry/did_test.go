package didregistry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

func TestValidateDID(t *testing.T) {
	for _, tc := range []struct {
		did string
		ok  bool
	}{
		{"did:metablox:abc", true},
		{"did:metablox:", true},
		{"did:metablox:0x0012", true},
		{"did:metablox", false},
		{"did:metablox:a:b", false},
		{"did:other:abc", false},
		{"DID:metablox:abc", false},
		{"xyz:metablox:abc", false},
		{"", false},
	} {
		err := ValidateDID(tc.did)
		if tc.ok {
			require.Nil(t, err, tc.did)
			continue
		}
		require.NotNil(t, err, tc.did)
		require.Equal(t, ErrDIDFormat, aerrors.RetCode(err), tc.did)
		require.False(t, aerrors.IsFatal(err))
	}
}

func TestDeriveDID(t *testing.T) {
	a := types.MustParseAddress("00" + "0102030405060708090a0b0c0d0e0f1011121314")
	require.Equal(t, "did:metablox:0x000102030405060708090a0b0c0d0e0f1011121314", DeriveDID(a))
	require.Nil(t, ValidateDID(DeriveDID(a)))
}

func TestExitCodeName(t *testing.T) {
	require.Equal(t, "DelegateExpired", ExitCodeName(ErrDelegateExpired))
	require.Equal(t, "FormatError", ExitCodeName(ErrDIDFormat))
	require.NotEmpty(t, ExitCodeName(1))
}
