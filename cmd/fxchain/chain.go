package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/dsp/param"
	"github.com/cwbudde/algo-fxchain/dsp/state"
	"github.com/cwbudde/algo-fxchain/internal/config"
)

// setFlag collects repeated -set "ID=value" arguments.
type setFlag []assignment

type assignment struct {
	id    string
	value string
}

func (s *setFlag) String() string {
	parts := make([]string, len(*s))
	for i, a := range *s {
		parts[i] = a.id + "=" + a.value
	}

	return strings.Join(parts, ", ")
}

func (s *setFlag) Set(v string) error {
	id, value, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(id) == "" {
		return fmt.Errorf("want ID=value, got %q", v)
	}

	*s = append(*s, assignment{id: strings.TrimSpace(id), value: strings.TrimSpace(value)})

	return nil
}

// apply sets numbers with Set and anything else as a choice label.
func (s setFlag) apply(store *param.Store) error {
	for _, a := range s {
		if v, err := strconv.ParseFloat(a.value, 64); err == nil {
			if err := store.Set(a.id, v); err != nil {
				return err
			}

			continue
		}

		if err := store.SetChoice(a.id, a.value); err != nil {
			return err
		}
	}

	return nil
}

// chainFlags are the flags every chain-driving command shares.
type chainFlags struct {
	configPath string
	order      string
	loadState  string
	saveState  string
	bypass     string
	logLevel   string
	set        setFlag
}

func (c *chainFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&c.order, "order", "", "comma-separated stage order, e.g. phase,chorus,overdrive,ladder-filter,general-filter")
	fs.StringVar(&c.loadState, "state", "", "load a saved chain state before the other flags apply")
	fs.StringVar(&c.saveState, "save-state", "", "save the chain state on exit")
	fs.StringVar(&c.bypass, "bypass", "", "comma-separated kinds to bypass")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (default from config, else info)")
	fs.Var(&c.set, "set", "set a control, ID=value; repeatable (see 'fxchain params')")
}

// chain is a configured processor with its control-side handles.
type chain struct {
	cfg    *config.Config
	store  *param.Store
	proc   *effectchain.Processor
	ctl    *effectchain.Controller
	logger *slog.Logger
}

// buildChain resolves configuration in the order: config file, saved state,
// -order, -bypass, -set. It does not prepare the processor.
func buildChain(cf *chainFlags, stderr io.Writer) (*chain, error) {
	cfg := config.Default()

	if cf.configPath != "" {
		loaded, err := config.Load(cf.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if cf.logLevel != "" {
		cfg.LogLevel = cf.logLevel
	}

	level, err := config.ResolveLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := effectchain.NewParameterStore()
	if err != nil {
		return nil, err
	}

	if err := config.Apply(cfg, store); err != nil {
		return nil, err
	}

	order, err := cfg.Order()
	if err != nil {
		return nil, err
	}

	if cf.loadState != "" {
		if order, err = loadState(cf.loadState, store); err != nil {
			return nil, err
		}

		logger.Info("state loaded", "path", cf.loadState, "order", order.String())
	}

	if cf.order != "" {
		if order, err = effectchain.ParseOrder(cf.order); err != nil {
			return nil, err
		}
	}

	if err := applyBypass(cf.bypass, store); err != nil {
		return nil, err
	}

	if err := cf.set.apply(store); err != nil {
		return nil, err
	}

	proc, err := effectchain.NewProcessor(store, append(cfg.Options(), effectchain.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}

	ctl := effectchain.NewController(proc, effectchain.WithLogger(logger))
	if err := ctl.Set(order); err != nil {
		return nil, err
	}

	if !order.Equal(effectchain.DefaultOrder()) {
		if err := ctl.Submit(); err != nil {
			return nil, err
		}
	}

	return &chain{cfg: cfg, store: store, proc: proc, ctl: ctl, logger: logger}, nil
}

func applyBypass(list string, store *param.Store) error {
	if list == "" {
		return nil
	}

	for name := range strings.SplitSeq(list, ",") {
		k, err := effectchain.ParseKind(name)
		if err != nil {
			return err
		}

		if err := store.Set(effectchain.BypassID(k), 1); err != nil {
			return err
		}
	}

	return nil
}

func loadState(path string, store *param.Store) (effectchain.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return effectchain.EmptyOrder(), err
	}
	defer f.Close()

	return state.Load(f, store)
}

// saveState writes the processor's current order. Call it only when the
// audio side has stopped.
func (c *chain) saveState(path string) (err error) {
	if path == "" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := state.Save(f, c.store, c.proc.CurrentOrder()); err != nil {
		return err
	}

	c.logger.Info("state saved", "path", path, "order", c.proc.CurrentOrder().String())

	return nil
}
