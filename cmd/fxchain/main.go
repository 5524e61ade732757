// Command fxchain runs the reorderable effect chain: offline over WAV files,
// in real time on the default output device, or as a response analyzer.
//
// Usage:
//
//	fxchain <command> [flags]
//
// Commands:
//
//	render    process a WAV file or generated signal into a WAV file
//	play      play a generated signal through the chain with keyboard control
//	response  print the magnitude response of the chain
//	order     encode, decode or shuffle stage orders
//	params    list every control ID with its range and default
//
// Examples:
//
//	fxchain render -wave sweep -seconds 4 -out sweep.wav
//	fxchain render -in guitar.wav -out wet.wav -order general-filter,phase,chorus,overdrive,ladder-filter
//	fxchain render -in guitar.wav -out wet.wav -reorder-every 100 -save-state last.fxs
//	fxchain play -wave saw -freq 110 -set "Ladder Filter Resonance=0.7"
//	fxchain response -bypass phase,chorus -set "General Filter Gain=9"
//	fxchain order decode AAECAwQ=
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

type command struct {
	summary string
	run     func(args []string, stdout, stderr io.Writer) error
}

var commands = map[string]command{
	"render":   {"process a WAV file or generated signal into a WAV file", runRender},
	"play":     {"play a generated signal through the chain with keyboard control", runPlay},
	"response": {"print the magnitude response of the chain", runResponse},
	"order":    {"encode, decode or shuffle stage orders", runOrder},
	"params":   {"list every control ID with its range and default", runParams},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		usage(stderr)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "fxchain: unknown command %q\n\n", args[0])
		usage(stderr)

		return 2
	}

	if err := cmd.run(args[1:], stdout, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		fmt.Fprintf(stderr, "fxchain %s: %v\n", args[0], err)

		return 1
	}

	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: fxchain <command> [flags]\n\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}

	fmt.Fprintf(w, "\nRun 'fxchain <command> -h' for command flags.\n")
}
