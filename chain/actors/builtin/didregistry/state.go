package didregistry

import (
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/adt"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// DelegateMap maps a delegate address to the epoch its grant expires at.
type DelegateMap = adt.SortedMap[types.Address, abi.ChainEpoch]

// State is the registry root. All maps iterate in ascending key order so the
// encoded state is identical for identical call histories.
type State struct {
	Owner    types.Address
	OwnerDID string

	Nonces     *adt.SortedMap[types.Address, uint64]
	Dids       *adt.SortedMap[string, types.Address]
	Attributes *adt.SortedMap[string, []string]
	Delegates  *adt.SortedMap[string, *DelegateMap]
}

func newState(owner types.Address, ownerDID string) *State {
	return &State{
		Owner:      owner,
		OwnerDID:   ownerDID,
		Nonces:     adt.NewAddressMap[uint64](),
		Dids:       adt.NewStringMap[types.Address](),
		Attributes: adt.NewStringMap[[]string](),
		Delegates:  adt.NewStringMap[*DelegateMap](),
	}
}

// Clone returns a deep copy that shares no memory with st.
func (st *State) Clone() *State {
	return &State{
		Owner:      st.Owner,
		OwnerDID:   st.OwnerDID,
		Nonces:     st.Nonces.Clone(nil),
		Dids:       st.Dids.Clone(nil),
		Attributes: st.Attributes.Clone(copyStrings),
		Delegates: st.Delegates.Clone(func(dm *DelegateMap) *DelegateMap {
			return dm.Clone(nil)
		}),
	}
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Nonce returns the audit counter of a, zero if a never mutated the registry.
func (st *State) Nonce(a types.Address) uint64 {
	n, _ := st.Nonces.Get(a)
	return n
}

func (st *State) Controller(did string) (types.Address, bool) {
	return st.Dids.Get(did)
}

// Delegate returns the expiry of the grant for (did, a).
func (st *State) Delegate(did string, a types.Address) (abi.ChainEpoch, bool) {
	dm, ok := st.Delegates.Get(did)
	if !ok {
		return 0, false
	}
	return dm.Get(a)
}

// DelegateInfo is one grant of a DID.
type DelegateInfo struct {
	Delegate  types.Address
	ExpiresAt abi.ChainEpoch
}

// ListDelegates returns the grants of did in ascending delegate order.
func (st *State) ListDelegates(did string) []DelegateInfo {
	dm, ok := st.Delegates.Get(did)
	if !ok {
		return nil
	}
	out := make([]DelegateInfo, 0, dm.Len())
	_ = dm.ForEach(func(a types.Address, exp abi.ChainEpoch) error {
		out = append(out, DelegateInfo{Delegate: a, ExpiresAt: exp})
		return nil
	})
	return out
}
