package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/snapdiff"
	"github.com/etnz/snapdiff/renderer"
	"github.com/etnz/snapdiff/xlsx"
	"github.com/google/subcommands"
)

type compareCmd struct {
	app *App
	comparison

	currency  string
	unmatched bool
	raw       bool
	title     string
	xlsxFile  string
	jsonlFile string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "display the changes between two snapshots" }
func (*compareCmd) Usage() string {
	return `compare -k <keys> [-c <columns>] [flags] <before> <after>

  Aligns the rows of two tables on the composite key made of the key columns
  and displays, for each compare column, the values that changed.

  Tables are files or databases, see 'snapdiff topic sources'.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	c.comparison.SetFlags(f, c.app.Config)
	f.StringVar(&c.currency, "currency", c.app.Config.Currency, "Format numbers as money in this currency, e.g. EUR")
	f.BoolVar(&c.unmatched, "unmatched", false, "List the keys found in a single table")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it")
	f.StringVar(&c.title, "title", "", "Title of the report")
	f.StringVar(&c.xlsxFile, "xlsx", "", "Also export the changes to this spreadsheet")
	f.StringVar(&c.jsonlFile, "jsonl", "", "Also export the changes to this JSONL file")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	res, err := c.run(ctx, c.app, f.Arg(0), f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var md strings.Builder
	sinks := []snapdiff.Sink{renderer.Sink(&md, renderer.Options{
		Title:     c.title,
		Currency:  c.currency,
		Unmatched: c.unmatched,
	})}
	if c.xlsxFile != "" && !res.Empty() {
		sinks = append(sinks, xlsx.Sink(c.xlsxFile, xlsx.Options{Title: c.title, Identifier: c.app.RunID}))
	}
	if c.jsonlFile != "" {
		sinks = append(sinks, jsonlSink(c.jsonlFile))
	}
	err = snapdiff.Publish(res, sinks...)
	c.app.printMarkdown(md.String(), c.raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// jsonlSink writes results to a new file in the changes format.
func jsonlSink(path string) snapdiff.Sink {
	return snapdiff.SinkFunc(func(r *snapdiff.Result) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := snapdiff.ExportChanges(f, r); err != nil {
			f.Close()
			return fmt.Errorf("cannot export to %q: %w", path, err)
		}
		return f.Close()
	})
}
