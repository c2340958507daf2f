package didregistry

import (
	"github.com/filecoin-project/go-state-types/exitcode"
)

// Exit codes of the registry. Each failure kind has its own code so callers
// can branch on the receipt without parsing messages.
const (
	ErrDIDFormat = exitcode.FirstActorSpecificExitCode + iota
	ErrAlreadyRegistered
	ErrRegisteredByOther
	ErrDIDNotFound
	ErrNotAuthorized
	ErrDelegateExpired
)

var exitCodeNames = map[exitcode.ExitCode]string{
	ErrDIDFormat:         "FormatError",
	ErrAlreadyRegistered: "AlreadyRegistered",
	ErrRegisteredByOther: "RegisteredByOther",
	ErrDIDNotFound:       "DidNotFound",
	ErrNotAuthorized:     "NotAuthorized",
	ErrDelegateExpired:   "DelegateExpired",
}

// ExitCodeName names registry exit codes, falling back to the common names
// for system and shared actor codes.
func ExitCodeName(code exitcode.ExitCode) string {
	if n, ok := exitCodeNames[code]; ok {
		return n
	}
	return code.String()
}
