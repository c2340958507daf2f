package actors

import (
	"bytes"

	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
)

func SerializeParams(i cbg.CBORMarshaler) ([]byte, aerrors.ActorError) {
	buf := new(bytes.Buffer)
	if err := i.MarshalCBOR(buf); err != nil {
		return nil, aerrors.Absorb(err, exitcode.ErrSerialization, "failed to encode parameter")
	}
	return buf.Bytes(), nil
}

func DecodeReturn(b []byte, out cbg.CBORUnmarshaler) error {
	return out.UnmarshalCBOR(bytes.NewReader(b))
}
