package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/laundry/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "config file (default ./laundry.yaml or ~/.config/laundry/laundry.yaml)")
	dataPath := flag.String("data", "", "state file (default ./laundry.json)")
	theme := flag.String("theme", "", "classic, neon or mono")
	noColor := flag.Bool("no-color", false, "disable colors")
	yes := flag.Bool("y", false, "answer yes to confirmation prompts")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		ConfigPath: *configPath,
		DataPath:   *dataPath,
		Theme:      *theme,
		NoColor:    *noColor,
		AssumeYes:  *yes,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
