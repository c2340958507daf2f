package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"
)

// AddressType is the leading tag byte of an address.
type AddressType byte

const (
	Account AddressType = iota
	System
	PublicContract
	ZkContract
	Governance
)

func (t AddressType) String() string {
	switch t {
	case Account:
		return "account"
	case System:
		return "system"
	case PublicContract:
		return "public-contract"
	case ZkContract:
		return "zk-contract"
	case Governance:
		return "governance"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

const (
	// IdentifierLength is the length of the identifier that follows the type tag.
	IdentifierLength = 20
	// AddressLength is the length of an address on the wire.
	AddressLength = 1 + IdentifierLength
)

var (
	ErrUnknownType    = xerrors.New("unknown address type")
	ErrInvalidLength  = xerrors.New("invalid address length")
	ErrInvalidPayload = xerrors.New("invalid address payload")
)

// Address is an account identifier: a type tag followed by a fixed length
// identifier. Addresses are immutable and ordered by their raw bytes.
type Address struct {
	raw [AddressLength]byte
	set bool
}

// Undef is the type that represents an undefined address.
var Undef = Address{}

// ZeroAccount is the plain account address with an all-zero identifier.
var ZeroAccount = Address{set: true}

func NewAddress(t AddressType, id [IdentifierLength]byte) (Address, error) {
	if t > Governance {
		return Undef, ErrUnknownType
	}
	var a Address
	a.raw[0] = byte(t)
	copy(a.raw[1:], id[:])
	a.set = true
	return a, nil
}

// NewFromBytes parses the 21 byte wire form of an address.
func NewFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Undef, xerrors.Errorf("%w: got %d bytes", ErrInvalidLength, len(b))
	}
	var id [IdentifierLength]byte
	copy(id[:], b[1:])
	return NewAddress(AddressType(b[0]), id)
}

// NewFromString parses the hex form of an address, with or without a 0x prefix.
func NewFromString(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*AddressLength {
		return Undef, xerrors.Errorf("%w: got %d hex characters", ErrInvalidLength, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Undef, xerrors.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	return NewFromBytes(b)
}

// MustParseAddress is NewFromString that panics. Use in tests and constants only.
func MustParseAddress(s string) Address {
	a, err := NewFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) Type() AddressType {
	return AddressType(a.raw[0])
}

func (a Address) Identifier() [IdentifierLength]byte {
	var id [IdentifierLength]byte
	copy(id[:], a.raw[1:])
	return id
}

func (a Address) Empty() bool {
	return !a.set
}

// Bytes returns the wire form of the address. Undef encodes as nil.
func (a Address) Bytes() []byte {
	if a.Empty() {
		return nil
	}
	out := make([]byte, AddressLength)
	copy(out, a.raw[:])
	return out
}

func (a Address) String() string {
	if a.Empty() {
		return "<empty>"
	}
	return hex.EncodeToString(a.raw[:])
}

// Compare orders addresses by their raw bytes. Undef sorts first.
func (a Address) Compare(o Address) int {
	switch {
	case a.set == o.set:
		return bytes.Compare(a.raw[:], o.raw[:])
	case !a.set:
		return -1
	default:
		return 1
	}
}

func (a Address) Less(o Address) bool {
	return a.Compare(o) < 0
}

func (a Address) MarshalText() ([]byte, error) {
	if a.Empty() {
		return []byte{}, nil
	}
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Undef
		return nil
	}
	na, err := NewFromString(string(text))
	if err != nil {
		return err
	}
	*a = na
	return nil
}

func (a *Address) MarshalCBOR(w io.Writer) error {
	if a == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}
	if a.Empty() {
		return xerrors.New("cannot marshal undefined address")
	}
	return cbg.WriteByteArray(w, a.raw[:])
}

func (a *Address) UnmarshalCBOR(r io.Reader) error {
	b, err := cbg.ReadByteArray(r, AddressLength)
	if err != nil {
		return err
	}
	na, err := NewFromBytes(b)
	if err != nil {
		return err
	}
	*a = na
	return nil
}
