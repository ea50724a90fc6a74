package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/snapdiff"
	"github.com/etnz/snapdiff/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	app      *App
	topN     int
	currency string
	raw      bool
	title    string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display changes previously exported to JSONL" }
func (*showCmd) Usage() string {
	return `show [-n <rows>] [-currency <code>] <changes.jsonl>

  Displays the changes written by 'snapdiff export -format jsonl' as
  'snapdiff compare' would.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.topN, "n", c.app.Config.TopN, "Number of rows displayed per column, 0 for all")
	f.StringVar(&c.currency, "currency", c.app.Config.Currency, "Format numbers as money in this currency, e.g. EUR")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it")
	f.StringVar(&c.title, "title", "", "Title of the report")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected one changes file, got %d arguments\n", f.NArg())
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	res, err := snapdiff.ImportChanges(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	res.TopN = c.topN
	for i := range res.Columns {
		res.Columns[i].TopN = c.topN
	}

	c.app.printMarkdown(renderer.Markdown(res, renderer.Options{Title: c.title, Currency: c.currency}), c.raw)
	return subcommands.ExitSuccess
}
