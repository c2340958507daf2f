package vm

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"reflect"

	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/runtime"
)

type invokeFunc func(rt *Runtime, params []byte) ([]byte, aerrors.ActorError)
type nativeCode []invokeFunc

// Invokee is an actor whose methods are indexed by method number.
type Invokee interface {
	Exports() []interface{}
}

type invoker struct {
	name string
	code nativeCode
}

func newInvoker(instance Invokee) (*invoker, error) {
	code, err := (&invoker{}).transform(instance)
	if err != nil {
		return nil, err
	}
	return &invoker{
		name: reflect.TypeOf(instance).String(),
		code: code,
	}, nil
}

func (inv *invoker) Invoke(rt *Runtime, method abi.MethodNum, params []byte) ([]byte, aerrors.ActorError) {
	if method >= abi.MethodNum(len(inv.code)) || inv.code[method] == nil {
		return nil, aerrors.Newf(exitcode.SysErrInvalidMethod, "no method %d on %s (params %s)", method, inv.name, hex.EncodeToString(params))
	}
	return inv.code[method](rt, params)
}

var (
	tAError     = reflect.TypeOf((*aerrors.ActorError)(nil)).Elem()
	tRuntime    = reflect.TypeOf((*runtime.Runtime)(nil)).Elem()
	tMarshaler  = reflect.TypeOf((*cbg.CBORMarshaler)(nil)).Elem()
	tUnmarshal  = reflect.TypeOf((*cbg.CBORUnmarshaler)(nil)).Elem()
	tEmptyValue = reflect.TypeOf((*abi.EmptyValue)(nil))
)

func (*invoker) transform(instance Invokee) (nativeCode, error) {
	itype := reflect.TypeOf(instance)
	exports := instance.Exports()
	for i, m := range exports {
		i := i
		newErr := func(format string, args ...interface{}) error {
			str := fmt.Sprintf(format, args...)
			return fmt.Errorf("transform(%s) export(%d): %s", itype.Name(), i, str)
		}

		if m == nil {
			continue
		}

		meth := reflect.ValueOf(m)
		t := meth.Type()
		if t.Kind() != reflect.Func {
			return nil, newErr("is not a function")
		}
		if t.NumIn() != 2 {
			return nil, newErr("wrong number of inputs should be: " +
				"runtime.Runtime, <parameter>")
		}
		if t.In(0) != tRuntime {
			return nil, newErr("first argument should be runtime.Runtime")
		}
		if t.In(1).Kind() != reflect.Ptr {
			return nil, newErr("second argument should be a pointer")
		}
		if !t.In(1).Implements(tUnmarshal) {
			return nil, newErr("parameter needs to implement cbg.CBORUnmarshaler")
		}

		if t.NumOut() != 2 {
			return nil, newErr("wrong number of outputs should be: " +
				"cbg.CBORMarshaler, aerrors.ActorError")
		}
		if t.Out(0).Kind() != reflect.Ptr || !t.Out(0).Implements(tMarshaler) {
			return nil, newErr("output needs to be a pointer implementing cbg.CBORMarshaler")
		}
		if t.Out(1) != tAError {
			return nil, newErr("second output should be aerrors.ActorError")
		}
	}

	code := make(nativeCode, len(exports))
	for id, m := range exports {
		if m == nil {
			continue
		}
		meth := reflect.ValueOf(m)
		paramT := meth.Type().In(1).Elem()
		code[id] = func(rt *Runtime, params []byte) ([]byte, aerrors.ActorError) {
			param := reflect.New(paramT)
			if err := DecodeParams(params, param.Interface()); err != nil {
				return nil, aerrors.Absorb(err, exitcode.ErrSerialization, "failed to decode parameters")
			}

			return rt.shimCall(func() (cbg.CBORMarshaler, aerrors.ActorError) {
				ret := meth.Call([]reflect.Value{
					reflect.ValueOf(rt),
					param,
				})
				var aerr aerrors.ActorError
				if !ret[1].IsNil() {
					aerr = ret[1].Interface().(aerrors.ActorError)
				}
				if ret[0].IsNil() || ret[0].Type() == tEmptyValue {
					return nil, aerr
				}
				return ret[0].Interface().(cbg.CBORMarshaler), aerr
			})
		}
	}
	return code, nil
}

// DecodeParams decodes b into out, which must implement cbg.CBORUnmarshaler.
// Trailing bytes are rejected.
func DecodeParams(b []byte, out interface{}) error {
	um, ok := out.(cbg.CBORUnmarshaler)
	if !ok {
		return fmt.Errorf("type %T does not implement UnmarshalCBOR", out)
	}

	r := bytes.NewReader(b)
	if err := um.UnmarshalCBOR(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%d trailing bytes after parameters", r.Len())
	}
	return nil
}
