package effectchain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	// ErrInvalidOrder is returned for an order that is not a permutation of
	// every kind.
	ErrInvalidOrder = errors.New("effectchain: invalid order")

	// ErrQueueFull is returned when an order request could not be enqueued.
	ErrQueueFull = errors.New("effectchain: order queue full")
)

// Order is the sequence in which stages run. A valid order lists every kind
// exactly once.
type Order [NumKinds]Kind

// DefaultOrder returns the kinds in ascending ordinal order.
func DefaultOrder() Order {
	return Order(Kinds())
}

// EmptyOrder returns an order with every slot set to [KindInvalid]. It means
// "no update" and is never applied.
func EmptyOrder() Order {
	var o Order
	for i := range o {
		o[i] = KindInvalid
	}

	return o
}

// RandomOrder returns a uniformly shuffled permutation drawn from rng.
func RandomOrder(rng *rand.Rand) Order {
	o := DefaultOrder()
	rng.Shuffle(len(o), func(i, j int) { o[i], o[j] = o[j], o[i] })

	return o
}

// ParseOrder parses a comma-separated list of kind names.
func ParseOrder(s string) (Order, error) {
	fields := strings.Split(s, ",")
	if len(fields) != NumKinds {
		return EmptyOrder(), fmt.Errorf("%w: want %d kinds, got %d", ErrInvalidOrder, NumKinds, len(fields))
	}

	var o Order
	for i, f := range fields {
		k, err := ParseKind(f)
		if err != nil {
			return EmptyOrder(), err
		}

		o[i] = k
	}

	if !o.Valid() {
		return EmptyOrder(), fmt.Errorf("%w: %q repeats a kind", ErrInvalidOrder, s)
	}

	return o, nil
}

// Valid reports whether o is a permutation of every kind.
func (o Order) Valid() bool {
	var seen [NumKinds]bool
	for _, k := range o {
		if !k.Valid() || seen[k] {
			return false
		}

		seen[k] = true
	}

	return true
}

// IsEmpty reports whether o is the "no update" sentinel.
func (o Order) IsEmpty() bool {
	return o == EmptyOrder()
}

// Equal reports whether o and other list the same kinds in the same slots.
func (o Order) Equal(other Order) bool { return o == other }

// Index returns the slot holding k, or -1.
func (o Order) Index(k Kind) int {
	for i, v := range o {
		if v == k {
			return i
		}
	}

	return -1
}

// Move removes the kind at slot from and reinserts it at slot to, shifting
// the kinds in between.
func (o Order) Move(from, to int) (Order, error) {
	if !inRange(from) || !inRange(to) {
		return o, fmt.Errorf("%w: move %d -> %d out of range", ErrInvalidOrder, from, to)
	}

	k := o[from]

	switch {
	case from < to:
		copy(o[from:to], o[from+1:to+1])
	case from > to:
		copy(o[to+1:from+1], o[to:from])
	}

	o[to] = k

	return o, nil
}

// Swap exchanges slots i and j.
func (o Order) Swap(i, j int) (Order, error) {
	if !inRange(i) || !inRange(j) {
		return o, fmt.Errorf("%w: swap %d <-> %d out of range", ErrInvalidOrder, i, j)
	}

	o[i], o[j] = o[j], o[i]

	return o, nil
}

func (o Order) String() string {
	var b strings.Builder
	for i, k := range o {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(k.String())
	}

	return b.String()
}

func inRange(i int) bool { return i >= 0 && i < NumKinds }
