package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/dsp/param"
)

func newStore(t *testing.T) *param.Store {
	t.Helper()

	store, err := effectchain.NewParameterStore()
	if err != nil {
		t.Fatal(err)
	}

	return store
}

func frame(t *testing.T, snap Snapshot) []byte {
	t.Helper()

	payload, err := msgpack.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)

	return buf.Bytes()
}

func TestMarshalOrder(t *testing.T) {
	t.Parallel()

	o := effectchain.Order{
		effectchain.KindGeneralFilter,
		effectchain.KindPhase,
		effectchain.KindLadderFilter,
		effectchain.KindChorus,
		effectchain.KindOverdrive,
	}

	b := MarshalOrder(o)
	if want := []byte{4, 0, 3, 1, 2}; !bytes.Equal(b, want) {
		t.Fatalf("MarshalOrder: got %v want %v", b, want)
	}

	got, err := UnmarshalOrder(b)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(o) {
		t.Fatalf("UnmarshalOrder: got %s want %s", got, o)
	}
}

func TestUnmarshalOrderRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short", []byte{0, 1, 2, 3}},
		{"long", []byte{0, 1, 2, 3, 4, 0}},
		{"duplicate", []byte{0, 1, 2, 3, 3}},
		{"out of range", []byte{0, 1, 2, 3, 9}},
		{"sentinel", []byte{0, 1, 2, 3, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			o, err := UnmarshalOrder(tt.in)
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}

			if !o.IsEmpty() {
				t.Fatalf("rejected input should return the empty order, got %s", o)
			}
		})
	}
}

func TestOrderString(t *testing.T) {
	t.Parallel()

	s := EncodeOrderString(effectchain.DefaultOrder())
	if s != "AAECAwQ=" {
		t.Fatalf("EncodeOrderString: got %q", s)
	}

	o, err := DecodeOrderString(s)
	if err != nil {
		t.Fatal(err)
	}

	if !o.Equal(effectchain.DefaultOrder()) {
		t.Fatalf("DecodeOrderString: got %s", o)
	}

	for _, bad := range []string{"not base64!", "AAECAwM=", ""} {
		if _, err := DecodeOrderString(bad); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("DecodeOrderString(%q): expected ErrInvalidState, got %v", bad, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	src := newStore(t)
	if err := src.Set(effectchain.IDPhaserRate, 1.25); err != nil {
		t.Fatal(err)
	}

	if err := src.Set(effectchain.IDGeneralGain, -6); err != nil {
		t.Fatal(err)
	}

	if err := src.Set(effectchain.BypassID(effectchain.KindChorus), 1); err != nil {
		t.Fatal(err)
	}

	order, err := effectchain.DefaultOrder().Swap(0, 4)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Save(&buf, src, order); err != nil {
		t.Fatal(err)
	}

	dst := newStore(t)

	got, err := Load(&buf, dst)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(order) {
		t.Fatalf("order: got %s want %s", got, order)
	}

	want := src.Values()
	for id, v := range dst.Values() {
		if want[id] != v {
			t.Fatalf("%q: got %v want %v", id, v, want[id])
		}
	}
}

func TestSaveRejectsInvalidOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Save(&buf, newStore(t), effectchain.EmptyOrder())
	if !errors.Is(err, effectchain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}

	if buf.Len() != 0 {
		t.Fatalf("nothing should be written, got %d bytes", buf.Len())
	}
}

func TestLoadIgnoresUnknownAndMissing(t *testing.T) {
	t.Parallel()

	data := frame(t, Snapshot{
		Version: Version,
		Order:   MarshalOrder(effectchain.DefaultOrder()),
		Params: map[string]float64{
			effectchain.IDChorusMix: 0.5,
			"Retired Control":       3,
		},
	})

	store := newStore(t)
	before := store.Values()

	if _, err := Load(bytes.NewReader(data), store); err != nil {
		t.Fatal(err)
	}

	for id, v := range store.Values() {
		want := before[id]
		if id == effectchain.IDChorusMix {
			want = 0.5
		}

		if v != want {
			t.Fatalf("%q: got %v want %v", id, v, want)
		}
	}
}

func TestLoadAppliesNothingOnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap Snapshot
	}{
		{
			name: "bad order",
			snap: Snapshot{
				Version: Version,
				Order:   []byte{0, 0, 1, 2, 3},
				Params:  map[string]float64{effectchain.IDPhaserMix: 0.9},
			},
		},
		{
			name: "bad version",
			snap: Snapshot{
				Version: Version + 1,
				Order:   MarshalOrder(effectchain.DefaultOrder()),
				Params:  map[string]float64{effectchain.IDPhaserMix: 0.9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newStore(t)
			before := store.Values()

			if _, err := Load(bytes.NewReader(frame(t, tt.snap)), store); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}

			for id, v := range store.Values() {
				if v != before[id] {
					t.Fatalf("%q changed to %v", id, v)
				}
			}
		})
	}
}

func TestDecodeFraming(t *testing.T) {
	t.Parallel()

	good := frame(t, Snapshot{Version: Version, Order: MarshalOrder(effectchain.DefaultOrder())})

	badMagic := bytes.Clone(good)
	badMagic[0] = 'X'

	huge := bytes.Clone(good)
	binary.BigEndian.PutUint32(huge[4:], maxPayload+1)

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short header", good[:5]},
		{"bad magic", badMagic},
		{"truncated payload", good[:len(good)-1]},
		{"oversized", huge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Decode(bytes.NewReader(tt.in)); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
		})
	}

	if _, err := Decode(bytes.NewReader(good)); err != nil {
		t.Fatalf("valid snapshot: %v", err)
	}
}
