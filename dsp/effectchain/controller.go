package effectchain

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// OrderSubmitter is the control-thread side of an order hand-off.
// [Processor] implements it.
type OrderSubmitter interface {
	RequestOrder(o Order) error
	PollAppliedOrder() (Order, bool)
}

// Controller is the control thread's model of the stage order: the order
// being edited and the last order the audio thread acknowledged. It is not
// safe for concurrent use.
type Controller struct {
	sub     OrderSubmitter
	edit    Order
	applied Order
	logger  *slog.Logger
}

// NewController returns a controller editing [DefaultOrder]. Only
// [WithLogger] applies.
func NewController(sub OrderSubmitter, opts ...Option) *Controller {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Controller{
		sub:     sub,
		edit:    DefaultOrder(),
		applied: DefaultOrder(),
		logger:  cfg.logger,
	}
}

// Order returns the order being edited.
func (c *Controller) Order() Order { return c.edit }

// Applied returns the last order acknowledged by the audio thread.
func (c *Controller) Applied() Order { return c.applied }

// Pending reports whether the edited order has not been acknowledged yet.
func (c *Controller) Pending() bool { return c.edit != c.applied }

// Set replaces the edited order.
func (c *Controller) Set(o Order) error {
	if !o.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidOrder, o)
	}

	c.edit = o

	return nil
}

// Move drags the stage at slot from to slot to.
func (c *Controller) Move(from, to int) error {
	o, err := c.edit.Move(from, to)
	if err != nil {
		return err
	}

	c.edit = o

	return nil
}

// Swap exchanges two slots.
func (c *Controller) Swap(i, j int) error {
	o, err := c.edit.Swap(i, j)
	if err != nil {
		return err
	}

	c.edit = o

	return nil
}

// Randomize replaces the edited order with a random permutation.
func (c *Controller) Randomize(rng *rand.Rand) Order {
	c.edit = RandomOrder(rng)
	c.logger.Debug("effectchain: random order", "order", c.edit.String())

	return c.edit
}

// ResetDefault restores [DefaultOrder].
func (c *Controller) ResetDefault() {
	c.edit = DefaultOrder()
}

// Submit sends the edited order to the audio thread. A full queue returns
// [ErrQueueFull]; the request is dropped and not retried.
func (c *Controller) Submit() error {
	err := c.sub.RequestOrder(c.edit)

	switch {
	case err == nil:
		c.logger.Debug("effectchain: order submitted", "order", c.edit.String())
	case errors.Is(err, ErrQueueFull):
		c.logger.Warn("effectchain: order request dropped", "order", c.edit.String())
	default:
		c.logger.Error("effectchain: order rejected", "order", c.edit.String(), "err", err)
	}

	return err
}

// Refresh collects acknowledgements and reports whether a new applied order
// arrived.
func (c *Controller) Refresh() bool {
	o, ok := c.sub.PollAppliedOrder()
	if !ok {
		return false
	}

	c.applied = o
	c.logger.Debug("effectchain: order applied", "order", o.String())

	return true
}
