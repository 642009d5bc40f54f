package kinematics

import (
	"math/bits"
	"strings"
)

// Flags is a set of up to eight collision categories
type Flags uint8

// Collision categories
const (
	FlagA Flags = 1 << iota
	FlagB
	FlagC
	FlagD
	FlagE
	FlagF
	FlagG
	FlagH
)

const (
	FlagsNone Flags = 0
	FlagsAll  Flags = 0xFF
)

// Intersects reports whether the two sets share a category
func (f Flags) Intersects(other Flags) bool {
	return f&other != 0
}

// Contains reports whether every category in other is also in f
func (f Flags) Contains(other Flags) bool {
	return f&other == other
}

// Count returns the number of categories set
func (f Flags) Count() int {
	return bits.OnesCount8(uint8(f))
}

// String renders the set as letters, e.g. "A|C"
func (f Flags) String() string {
	if f == FlagsNone {
		return "none"
	}
	var parts []string
	for i := 0; i < 8; i++ {
		if f&(1<<i) != 0 {
			parts = append(parts, string(rune('A'+i)))
		}
	}
	return strings.Join(parts, "|")
}
