package state

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
)

// ErrInvalidState is returned for data that does not decode to a valid
// order or snapshot.
var ErrInvalidState = errors.New("state: invalid state")

// MarshalOrder returns one byte per slot holding the kind ordinal.
func MarshalOrder(o effectchain.Order) []byte {
	b := make([]byte, effectchain.NumKinds)
	for i, k := range o {
		b[i] = byte(k)
	}

	return b
}

// UnmarshalOrder decodes b and rejects anything that is not a permutation of
// every kind.
func UnmarshalOrder(b []byte) (effectchain.Order, error) {
	if len(b) != effectchain.NumKinds {
		return effectchain.EmptyOrder(), fmt.Errorf("%w: order is %d bytes, want %d", ErrInvalidState, len(b), effectchain.NumKinds)
	}

	var o effectchain.Order
	for i, v := range b {
		o[i] = effectchain.Kind(v)
	}

	if !o.Valid() {
		return effectchain.EmptyOrder(), fmt.Errorf("%w: % x is not a permutation", ErrInvalidState, b)
	}

	return o, nil
}

// EncodeOrderString returns the base64 text form of o.
func EncodeOrderString(o effectchain.Order) string {
	return base64.StdEncoding.EncodeToString(MarshalOrder(o))
}

// DecodeOrderString parses the base64 text form.
func DecodeOrderString(s string) (effectchain.Order, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return effectchain.EmptyOrder(), fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	return UnmarshalOrder(b)
}
