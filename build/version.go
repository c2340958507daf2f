package build

import (
	"fmt"
)

// CurrentCommit is set by the build system, e.g. "+git.abcdef0".
var CurrentCommit string

// BuildVersion is the local build version
const BuildVersion = "0.3.0"

func UserVersion() string {
	return BuildVersion + CurrentCommit
}

// Version is a semver packed as 0x00MMmmpp.
type Version uint32

func newVer(major, minor, patch uint8) Version {
	return Version(uint32(major)<<16 | uint32(minor)<<8 | uint32(patch))
}

// Ints returns (major, minor, patch) versions
func (ve Version) Ints() (uint32, uint32, uint32) {
	v := uint32(ve)
	return (v & majorOnlyMask) >> 16, (v & minorOnlyMask) >> 8, v & patchOnlyMask
}

func (ve Version) String() string {
	vmj, vmi, vp := ve.Ints()
	return fmt.Sprintf("%d.%d.%d", vmj, vmi, vp)
}

// EqMajorMinor reports whether a client and a daemon speak the same api.
func (ve Version) EqMajorMinor(v2 Version) bool {
	return ve&minorMask == v2&minorMask
}

// semver version of the rpc api exposed
var RegistryAPIVersion = newVer(0, 3, 0)

const (
	minorMask = 0xffff00

	majorOnlyMask = 0xff0000
	minorOnlyMask = 0x00ff00
	patchOnlyMask = 0x0000ff
)
