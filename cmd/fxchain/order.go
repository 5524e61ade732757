package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/dsp/state"
)

const orderUsage = `Usage:
  fxchain order encode <kind,kind,...>   print the base64 form of an order
  fxchain order decode <base64>          print the kinds of an encoded order
  fxchain order random [-seed N]         print a random order in both forms
  fxchain order kinds                    list the kind names in default order
`

func runOrder(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, orderUsage)
		return fmt.Errorf("missing order subcommand")
	}

	switch args[0] {
	case "encode":
		if len(args) != 2 {
			return fmt.Errorf("encode takes one argument")
		}

		o, err := effectchain.ParseOrder(args[1])
		if err != nil {
			return err
		}

		fmt.Fprintln(stdout, state.EncodeOrderString(o))
	case "decode":
		if len(args) != 2 {
			return fmt.Errorf("decode takes one argument")
		}

		o, err := state.DecodeOrderString(strings.TrimSpace(args[1]))
		if err != nil {
			return err
		}

		fmt.Fprintln(stdout, o)
	case "random":
		fs := flag.NewFlagSet("order random", flag.ContinueOnError)
		fs.SetOutput(stderr)
		seed := fs.Uint64("seed", 1, "shuffle seed")

		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		o := effectchain.RandomOrder(rand.New(rand.NewPCG(*seed, *seed)))
		fmt.Fprintf(stdout, "%s\n%s\n", o, state.EncodeOrderString(o))
	case "kinds":
		for _, k := range effectchain.Kinds() {
			fmt.Fprintf(stdout, "%d %s\n", k+1, k)
		}
	default:
		fmt.Fprint(stderr, orderUsage)
		return fmt.Errorf("unknown order subcommand %q", args[0])
	}

	return nil
}
