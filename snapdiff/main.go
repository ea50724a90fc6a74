package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/snapdiff/cmd"
	"github.com/etnz/snapdiff/config"
	"github.com/etnz/snapdiff/logging"
	"github.com/google/subcommands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	app := &cmd.App{Config: cfg, Stdout: os.Stdout, Stdin: os.Stdin}
	commands := cmd.Commands(app)

	// Exits when invoked by the shell completion.
	cmd.Completion(commands).Complete("snapdiff")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	verbose := flag.Bool("v", false, "Verbose output, same as -log-level debug")
	level := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	format := flag.String("log-format", cfg.LogFormat, "Log format: text or json")
	flag.Parse()

	if *verbose {
		*level = "debug"
	}
	app.Logger, app.RunID = logging.WithRun(logging.Setup(os.Stderr, *level, *format))

	os.Exit(int(commander.Execute(context.Background())))
}
