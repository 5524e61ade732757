package effectchain

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
)

func TestControllerSubmitAndRefresh(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	c := NewController(p)

	if err := c.Move(0, 4); err != nil {
		t.Fatal(err)
	}

	want := Order{KindChorus, KindOverdrive, KindLadderFilter, KindGeneralFilter, KindPhase}
	if c.Order() != want {
		t.Fatalf("edited order = %v", c.Order())
	}

	if !c.Pending() {
		t.Fatal("expected a pending edit")
	}

	if err := c.Submit(); err != nil {
		t.Fatal(err)
	}

	if c.Refresh() {
		t.Fatal("nothing should be acknowledged before the audio thread runs")
	}

	p.Process(stereo(32))

	if !c.Refresh() {
		t.Fatal("expected an acknowledgement")
	}

	if c.Applied() != want || c.Pending() {
		t.Fatalf("applied = %v pending = %v", c.Applied(), c.Pending())
	}
}

func TestControllerEdits(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	c := NewController(p)

	if err := c.Swap(1, 2); err != nil {
		t.Fatal(err)
	}

	if c.Order().Index(KindChorus) != 2 {
		t.Fatalf("swap failed: %v", c.Order())
	}

	if err := c.Set(EmptyOrder()); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}

	if err := c.Move(0, 9); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}

	got := c.Randomize(rand.New(rand.NewPCG(3, 4)))
	if !got.Valid() || c.Order() != got {
		t.Fatalf("Randomize = %v", got)
	}

	c.ResetDefault()

	if c.Order() != DefaultOrder() {
		t.Fatalf("ResetDefault = %v", c.Order())
	}
}

func TestControllerLogsDroppedRequest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, _ := newTestProcessor(t, WithQueueCapacity(1))
	c := NewController(p, WithLogger(logger))

	if err := c.Submit(); err != nil {
		t.Fatal(err)
	}

	if err := c.Submit(); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	if !strings.Contains(buf.String(), "order request dropped") {
		t.Fatalf("drop not logged:\n%s", buf.String())
	}
}

// TestConcurrentOrderHandoff runs a control goroutine submitting random
// orders against the audio loop. Run with -race.
func TestConcurrentOrderHandoff(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t, WithQueueCapacity(4))
	c := NewController(p)

	var wg sync.WaitGroup

	done := make(chan struct{})

	wg.Add(1)

	go func() {
		defer wg.Done()

		rng := rand.New(rand.NewPCG(5, 6))

		for range 500 {
			c.Randomize(rng)
			_ = c.Submit()
			c.Refresh()
		}

		close(done)
	}()

	bufs := stereo(128)

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}

		p.Process(bufs)

		if !p.CurrentOrder().Valid() {
			t.Errorf("audio thread adopted invalid order %v", p.CurrentOrder())
			break
		}
	}

	wg.Wait()
}
