package types

import (
	"bytes"
	"fmt"

	block "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/abi"
)

// Message is a single call delivered by the host: the caller, the opcode of
// the action and its CBOR encoded positional arguments.
type Message struct {
	From Address
	// Seq is assigned by the host: the registry height the message is
	// applied at. It keeps identical calls apart in the message history.
	Seq    uint64
	Method abi.MethodNum
	Params []byte
}

func (m *Message) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := m.MarshalCBOR(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Message) ToStorageBlock() (block.Block, error) {
	data, err := m.Serialize()
	if err != nil {
		return nil, err
	}

	c, err := abi.CidBuilder.Sum(data)
	if err != nil {
		return nil, err
	}

	return block.NewBlockWithCid(data, c)
}

func (m *Message) Cid() cid.Cid {
	b, err := m.ToStorageBlock()
	if err != nil {
		panic(fmt.Sprintf("failed to marshal message: %s", err))
	}

	return b.Cid()
}

func DecodeMessage(b []byte) (*Message, error) {
	var msg Message
	if err := msg.UnmarshalCBOR(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ValidForApply checks the parts of a message the host is responsible for.
func (m *Message) ValidForApply() error {
	if m.From.Empty() {
		return xerrors.New("'From' address cannot be empty")
	}
	return nil
}
