package aerrors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-state-types/exitcode"

	. "github.com/Veric-Protocol/pbc-did-registry/chain/actors/aerrors"
)

func TestFatalError(t *testing.T) {
	e1 := xerrors.New("out of disk space")
	e2 := xerrors.Errorf("could not put node: %w", e1)
	e3 := xerrors.Errorf("could not write head block: %w", e2)
	ae := Escalate(e3, "failed to save the head")
	aw1 := Wrap(ae, "committing registry state")
	aw2 := Absorb(aw1, 1, "try to absorb fatal error")
	aw3 := Wrap(aw2, "applying register_did")
	aw4 := Wrap(aw3, "applying message")
	t.Logf("Verbose error: %+v", aw4)
	t.Logf("Normal error: %v", aw4)
	assert.True(t, IsFatal(aw4), "should be fatal")
}

func TestAbsorbedError(t *testing.T) {
	e1 := xerrors.New("EOF")
	e2 := xerrors.Errorf("could not decode: %w", e1)
	ae := Absorb(e2, 35, "failed to decode CBOR")
	aw1 := Wrap(ae, "committing registry state")
	aw2 := Wrap(aw1, "applying register_did")
	aw3 := Wrap(aw2, "applying message")
	t.Logf("Verbose error: %+v", aw3)
	t.Logf("Normal error: %v", aw3)
	assert.Equal(t, exitcode.ExitCode(35), RetCode(aw3))
}

func TestZeroRetCodeIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(0, "zero")))
	assert.True(t, IsFatal(Newf(0, "zero %d", 0)))
	assert.False(t, IsFatal(New(exitcode.ErrIllegalState, "not zero")))
}

func TestNilHelpers(t *testing.T) {
	assert.Equal(t, exitcode.Ok, RetCode(nil))
	assert.False(t, IsFatal(nil))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Absorb(nil, 1, "nothing"))
}
