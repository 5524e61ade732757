package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw key input is requested from a
// non-terminal.
var ErrNotTerminal = errors.New("host: input is not a terminal")

// KeyHandler is called for every key press. Returning true stops the
// keyboard loop.
type KeyHandler func(key byte) (stop bool)

// Keyboard reads single key presses from a terminal in raw mode.
type Keyboard struct {
	in *os.File
}

// NewKeyboard returns a keyboard reading from in, usually os.Stdin.
func NewKeyboard(in *os.File) *Keyboard {
	return &Keyboard{in: in}
}

// Run puts the terminal in raw mode and delivers key presses to handle until
// it asks to stop, ctx is done or input ends. The terminal state is restored
// before Run returns.
func (k *Keyboard) Run(ctx context.Context, handle KeyHandler) error {
	fd := int(k.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("host: raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, old) }()

	return Dispatch(ctx, k.in, handle)
}

// Dispatch reads bytes from r and passes each to handle. Raw-mode carriage
// returns arrive as '\n'. It returns nil when handle stops, ctx is done or r
// reaches EOF.
func Dispatch(ctx context.Context, r io.Reader, handle KeyHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan byte)
	errs := make(chan error, 1)

	go func() {
		buf := make([]byte, 1)

		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case keys <- buf[0]:
				case <-ctx.Done():
					return
				}
			}

			if err != nil {
				errs <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("host: read key: %w", err)
		case key := <-keys:
			if key == '\r' {
				key = '\n'
			}

			if handle(key) {
				return nil
			}
		}
	}
}
