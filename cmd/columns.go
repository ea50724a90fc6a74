package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/snapdiff"
	"github.com/etnz/snapdiff/source"
	"github.com/google/subcommands"
)

type columnsCmd struct {
	app  *App
	keys listFlag
	raw  bool
}

func (*columnsCmd) Name() string     { return "columns" }
func (*columnsCmd) Synopsis() string { return "list the columns of a table and their inferred types" }
func (*columnsCmd) Usage() string {
	return `columns [-k <keys>] <table>

  Lists the columns of a table with the type inferred for the comparison and
  the number of missing cells. With -k, also checks the composite key for
  duplicates.
`
}

func (c *columnsCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.keys, "k", "Comma separated key columns to check for duplicates")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it")
}

func (c *columnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected one table, got %d arguments\n", f.NArg())
		return subcommands.ExitUsageError
	}
	t, err := source.Open(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, k := range c.keys {
		if !t.HasColumn(k) {
			err := &snapdiff.MissingKeyColumnError{Column: k, Table: t.Name()}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	c.app.printMarkdown(columnsMarkdown(t, c.keys), c.raw)
	return subcommands.ExitSuccess
}

// columnsMarkdown describes the columns of t, and its duplicate keys if keys is set.
func columnsMarkdown(t *snapdiff.Table, keys []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nRows: %d\n\n", t.Name(), t.Len())
	b.WriteString("| Column | Type | Missing |\n|:---|:---|---:|\n")
	for _, col := range t.Columns() {
		values, _ := t.Column(col)
		missing := 0
		for _, v := range values {
			if v.IsMissing() {
				missing++
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %d |\n", col, snapdiff.InferColumnType(values), missing)
	}
	if len(keys) == 0 {
		return b.String()
	}

	idx := snapdiff.NewKeyIndex(t, keys)
	dups := idx.Duplicates()
	fmt.Fprintf(&b, "\nKeys (%s): %d, duplicated: %d\n", strings.Join(keys, snapdiff.KeySeparator), len(idx.Keys()), len(dups))
	for _, k := range dups {
		fmt.Fprintf(&b, "- %s (%d rows)\n", k, len(idx.Rows(k)))
	}
	return b.String()
}
