package state

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/dsp/param"
)

// Version is the snapshot format written by [Save].
const Version = 1

// maxPayload bounds the length prefix accepted by [Load].
const maxPayload = 1 << 20

var magic = [4]byte{'F', 'X', 'C', 'S'}

// Snapshot is the persisted form of a chain.
type Snapshot struct {
	Version int                `msgpack:"version"`
	Order   []byte             `msgpack:"order"`
	Params  map[string]float64 `msgpack:"params"`
}

// Save writes the order and every control value of store to w.
func Save(w io.Writer, store *param.Store, o effectchain.Order) error {
	if !o.Valid() {
		return fmt.Errorf("%w: %s", effectchain.ErrInvalidOrder, o)
	}

	payload, err := msgpack.Marshal(Snapshot{
		Version: Version,
		Order:   MarshalOrder(o),
		Params:  store.Values(),
	})
	if err != nil {
		return fmt.Errorf("state: marshal snapshot: %w", err)
	}

	var header [8]byte
	copy(header[:4], magic[:])
	binary.BigEndian.PutUint32(header[4:], uint32(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("state: write header: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("state: write snapshot: %w", err)
	}

	return nil
}

// Load reads a snapshot from r, applies its control values to store and
// returns its order. Unknown control IDs are ignored and controls missing from
// the snapshot keep their current value. Nothing is applied unless the whole
// snapshot is valid.
func Load(r io.Reader, store *param.Store) (effectchain.Order, error) {
	snap, err := Decode(r)
	if err != nil {
		return effectchain.EmptyOrder(), err
	}

	o, err := UnmarshalOrder(snap.Order)
	if err != nil {
		return effectchain.EmptyOrder(), err
	}

	for id, v := range snap.Params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return effectchain.EmptyOrder(), fmt.Errorf("%w: %q is not finite", ErrInvalidState, id)
		}
	}

	for id, v := range snap.Params {
		if _, err := store.Spec(id); err != nil {
			continue
		}

		if err := store.Set(id, v); err != nil {
			return effectchain.EmptyOrder(), fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
	}

	return o, nil
}

// Decode reads and checks the framing of a snapshot without applying it.
func Decode(r io.Reader) (Snapshot, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Snapshot{}, fmt.Errorf("%w: read header: %w", ErrInvalidState, err)
	}

	if !bytes.Equal(header[:4], magic[:]) {
		return Snapshot{}, fmt.Errorf("%w: bad magic % x", ErrInvalidState, header[:4])
	}

	n := binary.BigEndian.Uint32(header[4:])
	if n > maxPayload {
		return Snapshot{}, fmt.Errorf("%w: payload of %d bytes", ErrInvalidState, n)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Snapshot{}, fmt.Errorf("%w: read payload: %w", ErrInvalidState, err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	if snap.Version != Version {
		return Snapshot{}, fmt.Errorf("%w: version %d, want %d", ErrInvalidState, snap.Version, Version)
	}

	return snap, nil
}
