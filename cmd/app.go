// Package cmd implements the snapdiff command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/snapdiff"
	"github.com/etnz/snapdiff/config"
	"github.com/etnz/snapdiff/logging"
	"github.com/etnz/snapdiff/source"
	"github.com/google/subcommands"
)

// App holds what the commands of a single run share.
//
// Logger and RunID are set by the main package once the global flags are parsed.
type App struct {
	Config config.Config
	Logger *slog.Logger
	RunID  string
	Stdout io.Writer
	Stdin  io.Reader
}

// Commands returns the snapdiff subcommands.
func Commands(app *App) []subcommands.Command {
	return []subcommands.Command{
		&compareCmd{app: app},
		&exportCmd{app: app},
		&columnsCmd{app: app},
		&showCmd{app: app},
		&explainCmd{app: app},
		&topicCmd{app: app},
	}
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *App) stdout() io.Writer {
	if a.Stdout == nil {
		return os.Stdout
	}
	return a.Stdout
}

func (a *App) stdin() io.Reader {
	if a.Stdin == nil {
		return os.Stdin
	}
	return a.Stdin
}

// printMarkdown renders md for the terminal, or prints it as is when raw.
func (a *App) printMarkdown(md string, raw bool) {
	w := a.stdout()
	if raw {
		fmt.Fprint(w, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}

// listFlag is a comma separated list of values, the flag can be repeated.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}

// comparison holds the flags shared by the commands comparing two tables.
type comparison struct {
	keys    listFlag
	columns listFlag
	types   listFlag
	all     bool
	topN    int
}

func (c *comparison) SetFlags(f *flag.FlagSet, cfg config.Config) {
	f.Var(&c.keys, "k", "Comma separated key columns aligning rows (required)")
	f.Var(&c.columns, "c", "Comma separated columns to compare (default: every other column common to both tables)")
	f.Var(&c.types, "types", "Comma separated column types, e.g. 'qty=numeric,isin=text' (default: inferred)")
	f.BoolVar(&c.all, "all", false, "Also report unchanged values and values missing on both sides")
	f.IntVar(&c.topN, "n", cfg.TopN, "Number of rows displayed per column, 0 for all")
}

// usage errors are reported before loading any table.
func (c *comparison) validate(f *flag.FlagSet) error {
	if f.NArg() != 2 {
		return fmt.Errorf("expected two tables <before> <after>, got %d arguments", f.NArg())
	}
	if len(c.keys) == 0 {
		return fmt.Errorf("at least one key column is required (-k)")
	}
	if c.topN < 0 {
		return fmt.Errorf("-n must not be negative, got %d", c.topN)
	}
	return nil
}

// run loads both tables and compares them.
func (c *comparison) run(ctx context.Context, app *App, before, after string) (*snapdiff.Result, error) {
	types, err := snapdiff.ParseColumnTypes(c.types...)
	if err != nil {
		return nil, err
	}
	t1, err := source.Open(ctx, before)
	if err != nil {
		return nil, err
	}
	t2, err := source.Open(ctx, after)
	if err != nil {
		return nil, err
	}

	columns := c.columns
	if len(columns) == 0 {
		columns = defaultColumns(t1, t2, c.keys)
	}
	opts := snapdiff.Options{
		KeyColumns:     c.keys,
		CompareColumns: columns,
		ShowAll:        c.all,
		TopN:           c.topN,
		Types:          types,
	}
	if c.topN == 0 {
		opts.TopN = -1 // no truncation
	}

	log := logging.WithFields(app.logger(), "before", t1.Name(), "after", t2.Name())
	log.Debug("tables loaded", "before_rows", t1.Len(), "after_rows", t2.Len(), "columns", len(columns))
	return snapdiff.NewComparator(log).Compare(t1, t2, opts)
}

// defaultColumns returns the columns of before also in after, except the keys.
func defaultColumns(before, after *snapdiff.Table, keys []string) []string {
	var columns []string
	for _, col := range before.Columns() {
		if after.HasColumn(col) && !slices.Contains(keys, col) {
			columns = append(columns, col)
		}
	}
	return columns
}
