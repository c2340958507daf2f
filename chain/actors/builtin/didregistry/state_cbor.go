package didregistry

import (
	"fmt"
	"io"

	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"

	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// The state encodes as a 6-tuple. Each map is an array of [key, value]
// pairs in ascending key order, which is what makes the state root of two
// independent hosts agree after the same history.

const maxStateEntries = 1 << 24

var lengthBufState = []byte{134}

func (st *State) MarshalCBOR(w io.Writer) error {
	if st == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}

	cw := cbg.NewCborWriter(w)

	if _, err := cw.Write(lengthBufState); err != nil {
		return err
	}

	// st.Owner (types.Address) (struct)
	if err := st.Owner.MarshalCBOR(cw); err != nil {
		return xerrors.Errorf("owner: %w", err)
	}

	// st.OwnerDID (string) (string)
	if err := writeString(cw, st.OwnerDID); err != nil {
		return xerrors.Errorf("owner did: %w", err)
	}

	// st.Nonces
	if err := writeHeader(cw, cbg.MajArray, st.Nonces.Len()); err != nil {
		return err
	}
	if err := st.Nonces.ForEach(func(a types.Address, n uint64) error {
		if _, err := cw.Write([]byte{130}); err != nil {
			return err
		}
		if err := a.MarshalCBOR(cw); err != nil {
			return err
		}
		return cw.WriteMajorTypeHeader(cbg.MajUnsignedInt, n)
	}); err != nil {
		return xerrors.Errorf("nonces: %w", err)
	}

	// st.Dids
	if err := writeHeader(cw, cbg.MajArray, st.Dids.Len()); err != nil {
		return err
	}
	if err := st.Dids.ForEach(func(did string, controller types.Address) error {
		if _, err := cw.Write([]byte{130}); err != nil {
			return err
		}
		if err := writeString(cw, did); err != nil {
			return err
		}
		return controller.MarshalCBOR(cw)
	}); err != nil {
		return xerrors.Errorf("dids: %w", err)
	}

	// st.Attributes
	if err := writeHeader(cw, cbg.MajArray, st.Attributes.Len()); err != nil {
		return err
	}
	if err := st.Attributes.ForEach(func(did string, attrs []string) error {
		if _, err := cw.Write([]byte{130}); err != nil {
			return err
		}
		if err := writeString(cw, did); err != nil {
			return err
		}
		return writeStrings(cw, attrs)
	}); err != nil {
		return xerrors.Errorf("attributes: %w", err)
	}

	// st.Delegates
	if err := writeHeader(cw, cbg.MajArray, st.Delegates.Len()); err != nil {
		return err
	}
	if err := st.Delegates.ForEach(func(did string, dm *DelegateMap) error {
		if _, err := cw.Write([]byte{130}); err != nil {
			return err
		}
		if err := writeString(cw, did); err != nil {
			return err
		}
		if err := writeHeader(cw, cbg.MajArray, dm.Len()); err != nil {
			return err
		}
		return dm.ForEach(func(a types.Address, exp abi.ChainEpoch) error {
			if _, err := cw.Write([]byte{130}); err != nil {
				return err
			}
			if err := a.MarshalCBOR(cw); err != nil {
				return err
			}
			return writeInt64(cw, int64(exp))
		})
	}); err != nil {
		return xerrors.Errorf("delegates: %w", err)
	}

	return nil
}

func (st *State) UnmarshalCBOR(r io.Reader) (err error) {
	*st = *newState(types.Undef, "")

	cr := cbg.NewCborReader(r)

	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return err
	}
	defer func() {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
	}()

	if maj != cbg.MajArray {
		return fmt.Errorf("cbor input should be of type array")
	}

	if extra != 6 {
		return fmt.Errorf("cbor input had wrong number of fields")
	}

	if err := st.Owner.UnmarshalCBOR(cr); err != nil {
		return xerrors.Errorf("unmarshaling st.Owner: %w", err)
	}

	if st.OwnerDID, err = cbg.ReadString(cr); err != nil {
		return xerrors.Errorf("unmarshaling st.OwnerDID: %w", err)
	}

	var prevAddr types.Address
	if err := readEntries(cr, func(i int) error {
		var a types.Address
		if err := a.UnmarshalCBOR(cr); err != nil {
			return err
		}
		if i > 0 && !prevAddr.Less(a) {
			return xerrors.Errorf("nonce keys out of order at %s", a)
		}
		prevAddr = a
		n, err := readUint64(cr)
		if err != nil {
			return err
		}
		st.Nonces.Put(a, n)
		return nil
	}); err != nil {
		return xerrors.Errorf("unmarshaling st.Nonces: %w", err)
	}

	var prevDID string
	if err := readEntries(cr, func(i int) error {
		did, err := readOrderedString(cr, i, prevDID)
		if err != nil {
			return err
		}
		prevDID = did
		var controller types.Address
		if err := controller.UnmarshalCBOR(cr); err != nil {
			return err
		}
		st.Dids.Put(did, controller)
		return nil
	}); err != nil {
		return xerrors.Errorf("unmarshaling st.Dids: %w", err)
	}

	prevDID = ""
	if err := readEntries(cr, func(i int) error {
		did, err := readOrderedString(cr, i, prevDID)
		if err != nil {
			return err
		}
		prevDID = did
		attrs, err := readStrings(cr)
		if err != nil {
			return err
		}
		st.Attributes.Put(did, attrs)
		return nil
	}); err != nil {
		return xerrors.Errorf("unmarshaling st.Attributes: %w", err)
	}

	prevDID = ""
	if err := readEntries(cr, func(i int) error {
		did, err := readOrderedString(cr, i, prevDID)
		if err != nil {
			return err
		}
		prevDID = did

		dm := newDelegateMap()
		var prev types.Address
		if err := readEntries(cr, func(j int) error {
			var a types.Address
			if err := a.UnmarshalCBOR(cr); err != nil {
				return err
			}
			if j > 0 && !prev.Less(a) {
				return xerrors.Errorf("delegate keys out of order at %s", a)
			}
			prev = a
			exp, err := readInt64(cr)
			if err != nil {
				return err
			}
			dm.Put(a, abi.ChainEpoch(exp))
			return nil
		}); err != nil {
			return err
		}
		st.Delegates.Put(did, dm)
		return nil
	}); err != nil {
		return xerrors.Errorf("unmarshaling st.Delegates: %w", err)
	}

	return nil
}

// readEntries reads an array of 2-tuples, calling cb once per tuple with the
// reader positioned at the key.
func readEntries(cr *cbg.CborReader, cb func(i int) error) error {
	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return err
	}
	if maj != cbg.MajArray {
		return fmt.Errorf("expected cbor array")
	}
	if extra > maxStateEntries {
		return fmt.Errorf("array too large (%d)", extra)
	}
	for i := 0; i < int(extra); i++ {
		maj, n, err := cr.ReadHeader()
		if err != nil {
			return err
		}
		if maj != cbg.MajArray || n != 2 {
			return fmt.Errorf("expected [key, value] pair at %d", i)
		}
		if err := cb(i); err != nil {
			return err
		}
	}
	return nil
}

func readOrderedString(cr *cbg.CborReader, i int, prev string) (string, error) {
	s, err := cbg.ReadString(cr)
	if err != nil {
		return "", err
	}
	if i > 0 && prev >= s {
		return "", xerrors.Errorf("keys out of order at %q", s)
	}
	return s, nil
}

func writeHeader(cw *cbg.CborWriter, maj byte, n int) error {
	return cw.WriteMajorTypeHeader(maj, uint64(n))
}

func writeString(cw *cbg.CborWriter, s string) error {
	if len(s) > cbg.MaxLength {
		return xerrors.Errorf("string %q... was too long", s[:32])
	}
	if err := cw.WriteMajorTypeHeader(cbg.MajTextString, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(cw, s)
	return err
}

func writeStrings(cw *cbg.CborWriter, ss []string) error {
	if len(ss) > cbg.MaxLength {
		return xerrors.Errorf("string slice was too long")
	}
	if err := cw.WriteMajorTypeHeader(cbg.MajArray, uint64(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := writeString(cw, s); err != nil {
			return err
		}
	}
	return nil
}

func readStrings(cr *cbg.CborReader) ([]string, error) {
	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return nil, err
	}
	if extra > cbg.MaxLength {
		return nil, fmt.Errorf("string slice too large (%d)", extra)
	}
	if maj != cbg.MajArray {
		return nil, fmt.Errorf("expected cbor array")
	}
	out := make([]string, extra)
	for i := range out {
		if out[i], err = cbg.ReadString(cr); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func writeInt64(cw *cbg.CborWriter, v int64) error {
	if v >= 0 {
		return cw.WriteMajorTypeHeader(cbg.MajUnsignedInt, uint64(v))
	}
	return cw.WriteMajorTypeHeader(cbg.MajNegativeInt, uint64(-v-1))
}

func readInt64(cr *cbg.CborReader) (int64, error) {
	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return 0, err
	}
	extraI := int64(extra)
	switch maj {
	case cbg.MajUnsignedInt:
		if extraI < 0 {
			return 0, fmt.Errorf("int64 positive overflow")
		}
	case cbg.MajNegativeInt:
		if extraI < 0 {
			return 0, fmt.Errorf("int64 negative oveflow")
		}
		extraI = -1 - extraI
	default:
		return 0, fmt.Errorf("wrong type for int64 field: %d", maj)
	}
	return extraI, nil
}

func readUint64(cr *cbg.CborReader) (uint64, error) {
	maj, extra, err := cr.ReadHeader()
	if err != nil {
		return 0, err
	}
	if maj != cbg.MajUnsignedInt {
		return 0, fmt.Errorf("wrong type for uint64 field")
	}
	return extra, nil
}
