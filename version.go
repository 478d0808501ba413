package srtp

import "fmt"

const (
	versionMajor = 3
	versionMinor = 0
	versionMicro = 0
)

// Version returns the engine version encoded as major<<24 | minor<<16 |
// micro.
func Version() uint32 {
	return versionMajor<<24 | versionMinor<<16 | versionMicro
}

// VersionString returns the engine version in dotted form.
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d", versionMajor, versionMinor, versionMicro)
}
