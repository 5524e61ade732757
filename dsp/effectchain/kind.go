package effectchain

import (
	"fmt"
	"strings"
)

// Kind identifies one of the built-in stages. Ordinals are stable and index
// fixed-size arrays.
type Kind uint8

const (
	KindPhase Kind = iota
	KindChorus
	KindOverdrive
	KindLadderFilter
	KindGeneralFilter

	// KindInvalid marks an empty order slot.
	KindInvalid Kind = 0xFF
)

// NumKinds is the number of stage kinds and the length of an [Order].
const NumKinds = int(KindGeneralFilter) + 1

var kindNames = [NumKinds]string{
	"phase",
	"chorus",
	"overdrive",
	"ladder-filter",
	"general-filter",
}

// Valid reports whether k is one of the built-in kinds.
func (k Kind) Valid() bool { return int(k) < NumKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return "invalid"
	}

	return kindNames[k]
}

// ParseKind resolves a kind name such as "ladder-filter".
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}

	return KindInvalid, fmt.Errorf("%w: unknown kind %q", ErrInvalidOrder, s)
}

// Kinds returns every kind in ordinal order.
func Kinds() [NumKinds]Kind {
	var ks [NumKinds]Kind
	for i := range ks {
		ks[i] = Kind(i)
	}

	return ks
}
