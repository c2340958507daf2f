package vm

import (
	"bytes"
	"context"

	"github.com/ipfs/go-cid"
	ipldcbor "github.com/ipfs/go-ipld-cbor"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/runtime"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

var _ runtime.Runtime = (*Runtime)(nil)

// Runtime executes a single message. State writes go to a buffered store and
// only the head cid is tracked here; the VM decides whether to keep them.
type Runtime struct {
	ctx context.Context

	cst    ipldcbor.IpldStore
	caller types.Address
	height abi.ChainEpoch

	// head is the state root the call started from, updated by StateCommit.
	head cid.Cid
}

func (rt *Runtime) Context() context.Context {
	return rt.ctx
}

func (rt *Runtime) Caller() types.Address {
	return rt.caller
}

func (rt *Runtime) CurrEpoch() abi.ChainEpoch {
	return rt.height
}

func (rt *Runtime) StateReadonly(obj cbg.CBORUnmarshaler) aerrors.ActorError {
	if !rt.head.Defined() {
		return aerrors.New(exitcode.ErrIllegalState, "registry has no state")
	}
	if err := rt.cst.Get(rt.ctx, rt.head, obj); err != nil {
		return aerrors.Escalate(err, "failed to load registry state")
	}
	return nil
}

func (rt *Runtime) StateCommit(obj cbg.CBORMarshaler) aerrors.ActorError {
	c, err := rt.cst.Put(rt.ctx, obj)
	if err != nil {
		return aerrors.Escalate(err, "failed to store registry state")
	}
	rt.head = c
	return nil
}

func (rt *Runtime) shimCall(f func() (cbg.CBORMarshaler, aerrors.ActorError)) (rval []byte, aerr aerrors.ActorError) {
	defer func() {
		if r := recover(); r != nil {
			if ar, ok := r.(aerrors.ActorError); ok {
				log.Warnf("registry call failure from %s: %+v", rt.Caller(), ar)
				aerr = ar
				return
			}
			log.Errorf("registry actor failure: %s", r)
			aerr = aerrors.Newf(exitcode.SysErrIllegalInstruction, "registry actor failure: %s", r)
		}
	}()

	ret, aerr := f()
	if aerr != nil {
		return nil, aerr
	}
	if ret == nil {
		return nil, nil
	}

	buf := new(bytes.Buffer)
	if err := ret.MarshalCBOR(buf); err != nil {
		return nil, aerrors.Absorb(err, exitcode.ErrSerialization, "failed to marshal response to cbor")
	}
	return buf.Bytes(), nil
}
