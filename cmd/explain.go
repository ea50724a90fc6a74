package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/snapdiff/agent"
	"github.com/etnz/snapdiff/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type explainCmd struct {
	app *App
	comparison

	model       string
	question    string
	interactive bool
	raw         bool
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "explain the changes between two snapshots with Gemini" }
func (*explainCmd) Usage() string {
	return `explain -k <keys> [-c <columns>] [-q <question>] [-i] <before> <after>

  Compares two tables like 'compare' and asks a Gemini model to explain the
  changes. The API key is read from the GEMINI_API_KEY environment variable.
  With -i, follow up questions are read from the standard input.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	c.comparison.SetFlags(f, c.app.Config)
	f.StringVar(&c.model, "model", c.app.Config.Model, "Gemini model")
	f.StringVar(&c.question, "q", "", "Question to ask about the changes")
	f.BoolVar(&c.interactive, "i", false, "Ask follow up questions")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	res, err := c.run(ctx, c.app, f.Arg(0), f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if res.Empty() {
		fmt.Fprintln(c.app.stdout(), "No comparison results to explain.")
		return subcommands.ExitSuccess
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Gemini client: %v\n", err)
		return subcommands.ExitFailure
	}

	analyst := agent.NewAnalyst(client, c.model)
	c.app.logger().Debug("explaining changes", "model", c.model, "records", res.Count())
	answer, err := analyst.Explain(ctx, renderer.Markdown(res, renderer.Options{}), c.question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.app.printMarkdown(answer+"\n", c.raw)

	if c.interactive {
		show := func(s string) { c.app.printMarkdown(s+"\n", c.raw) }
		if err := analyst.Run(ctx, c.app.stdout(), c.app.stdin(), show); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
