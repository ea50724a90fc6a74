package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/snapdiff/xlsx"
	"github.com/google/subcommands"
)

type exportCmd struct {
	app *App
	comparison

	output string
	format string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the changes between two snapshots to a file" }
func (*exportCmd) Usage() string {
	return `export -k <keys> [-c <columns>] [-o <file>] [-format xlsx|jsonl] <before> <after>

  Compares two tables like 'compare' and writes every change to a file:
  a spreadsheet with one sheet per changed column, or a JSONL file that
  'snapdiff show' can display later. Nothing is written when nothing changed.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.comparison.SetFlags(f, c.app.Config)
	f.StringVar(&c.output, "o", c.app.Config.ExportFile, "Output file")
	f.StringVar(&c.format, "format", "", "Output format, xlsx or jsonl (default: from the output file extension)")
}

// outputFormat returns the export format, guessed from the output extension when not set.
func (c *exportCmd) outputFormat() (string, error) {
	format := strings.ToLower(c.format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(c.output)), ".")
	}
	switch format {
	case "xlsx", "jsonl":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported export format %q, want xlsx or jsonl", format)
	}
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := c.outputFormat()
	if err == nil {
		err = c.validate(f)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	res, err := c.run(ctx, c.app, f.Arg(0), f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	switch format {
	case "xlsx":
		err = xlsx.Export(c.output, res, xlsx.Options{Identifier: c.app.RunID})
	default:
		if res.Empty() {
			err = xlsx.ErrNothingToExport
		} else {
			err = jsonlSink(c.output).Write(res)
		}
	}
	if errors.Is(err, xlsx.ErrNothingToExport) {
		fmt.Fprintln(c.app.stdout(), "No comparison results to export.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.app.logger().Info("changes exported", "file", c.output, "format", format, "records", res.Count())
	fmt.Fprintf(c.app.stdout(), "Exported %d changes to %s\n", res.Count(), c.output)
	return subcommands.ExitSuccess
}
