package types

import (
	"bytes"

	"github.com/filecoin-project/go-state-types/exitcode"
)

// MessageReceipt is the outcome of applying a message. A non-zero exit code
// means the call was aborted and the state was left untouched.
type MessageReceipt struct {
	ExitCode exitcode.ExitCode
	Return   []byte
}

func (mr *MessageReceipt) Equals(o *MessageReceipt) bool {
	return mr.ExitCode == o.ExitCode && bytes.Equal(mr.Return, o.Return)
}
