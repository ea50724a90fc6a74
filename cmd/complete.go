package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// tables predicts the table files snapdiff can read.
var tables = predict.Or(
	predict.Files("*.csv"),
	predict.Files("*.tsv"),
	predict.Files("*.xlsx"),
	predict.Files("*.json"),
	predict.Files("*.jsonl"),
	predict.Files("*.db"),
	predict.Files("*.sqlite"),
)

// argPredictors predicts positional arguments per command, tables by default.
var argPredictors = map[string]complete.Predictor{
	"show":  predict.Files("*.jsonl"),
	"topic": predict.Nothing,
}

// flagPredictors predicts values of specific flags, by command then flag.
var flagPredictors = map[string]map[string]complete.Predictor{
	"export": {
		"o":      predict.Files("*"),
		"format": predict.Set{"xlsx", "jsonl"},
	},
	"compare": {
		"xlsx":  predict.Files("*.xlsx"),
		"jsonl": predict.Files("*.jsonl"),
	},
}

// Completion returns the shell completion of the commands.
//
// Flags are discovered from each command's SetFlags, boolean flags take no value.
func Completion(commands []subcommands.Command) *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{
			"help":  {Args: predict.Set(commandNames(commands))},
			"flags": {},
		},
		Flags: map[string]complete.Predictor{
			"v":          predict.Nothing,
			"log-level":  predict.Set{"debug", "info", "warn", "error"},
			"log-format": predict.Set{"text", "json"},
		},
	}
	for _, c := range commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)

		sub := &complete.Command{Flags: map[string]complete.Predictor{}, Args: tables}
		if p, ok := argPredictors[c.Name()]; ok {
			sub.Args = p
		}
		fs.VisitAll(func(f *flag.Flag) {
			var p complete.Predictor = predict.Something
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				p = predict.Nothing
			}
			if override, ok := flagPredictors[c.Name()][f.Name]; ok {
				p = override
			}
			sub.Flags[f.Name] = p
		})
		root.Sub[c.Name()] = sub
	}
	return root
}

func commandNames(commands []subcommands.Command) []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name())
	}
	return names
}
