package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-fxchain/dsp/effectchain"
	"github.com/cwbudde/algo-fxchain/dsp/param"
)

func runParams(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("params", flag.ContinueOnError)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tType\tRange\tDefault\n")

	for _, s := range effectchain.Layout() {
		var rng, def string

		switch s.Type {
		case param.TypeChoice:
			rng = strings.Join(s.Choices, "|")
			def = s.Choices[int(s.Default)]
		case param.TypeBool:
			rng = "0|1"
			def = fmt.Sprintf("%g", s.Default)
		default:
			rng = fmt.Sprintf("%g..%g %s", s.Min, s.Max, s.Unit)
			def = fmt.Sprintf("%g", s.Default)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Type, strings.TrimSpace(rng), def)
	}

	return tw.Flush()
}
