package sbpf

import "fmt"

// Version identifies the SBPF ISA revision an executable was built for.
// The ordering is meaningful: opcode availability and arithmetic widening
// rules are gated on comparisons against V2.
type Version int

const (
	V1 Version = iota + 1
	V2
	V3
)

func (v Version) String() string {
	switch v {
	case V1:
		return "sbpf-v1"
	case V2:
		return "sbpf-v2"
	case V3:
		return "sbpf-v3"
	}
	return fmt.Sprintf("sbpf-v%d", int(v))
}

// ParseVersion maps the numeric revision carried in an analyzer document
// to a Version. Unknown or zero values fall back to V1, the legacy ISA.
func ParseVersion(n int) Version {
	if n < int(V1) || n > int(V3) {
		return V1
	}
	return Version(n)
}
