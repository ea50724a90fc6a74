// Package agent explains comparison results using a Gemini model.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const instruction = `
You are a financial data analyst. You receive the changes between two snapshots
of a table, typically portfolio holdings exported at two different dates.

Rows were aligned on a composite key made of several key columns joined by '|'.
Each section lists the changed values of a single column, with the absolute
and percentage change for numeric columns. 'n/a' means the old value was zero.
An empty cell means the value is missing on that side.

Summarize the most significant changes first, group related changes (a new
position, a closed position, a price move), and point out anything that looks
like a data quality problem. Never invent values that are not in the report.
Use the read_topic tool when you need the definition of a term.`

// Analyst explains comparison reports.
type Analyst struct {
	expert *Expert
	client *genai.Client
}

// NewAnalyst creates an analyst chatting with model, DefaultModel if empty.
func NewAnalyst(client *genai.Client, model string) *Analyst {
	if model == "" {
		model = DefaultModel
	}
	return &Analyst{
		client: client,
		expert: &Expert{
			Name:      "Analyst",
			ModelName: model,
			Config: &genai.GenerateContentConfig{
				Tools: []*genai.Tool{
					{FunctionDeclarations: []*genai.FunctionDeclaration{topicDeclaration}},
				},
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
			},
			Library: analystLibrary,
		},
	}
}

// analystLibrary answers the analyst's function calls. read_topic is the only one.
func analystLibrary(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
	if call.Name == topicDeclaration.Name {
		return readTopic(ctx, call)
	}
	return &genai.FunctionResponse{
		ID:       call.ID,
		Name:     call.Name,
		Response: map[string]any{"error": fmt.Sprintf("unknown function %s, only %s is available", call.Name, topicDeclaration.Name)},
	}
}

// Prompt builds the first message sent to the analyst for a markdown report.
func Prompt(markdown, question string) string {
	var b strings.Builder
	b.WriteString("Here is the comparison report:\n\n")
	b.WriteString(strings.TrimSpace(markdown))
	b.WriteString("\n\n")
	if question = strings.TrimSpace(question); question != "" {
		b.WriteString(question)
	} else {
		b.WriteString("Explain these changes.")
	}
	return b.String()
}

// Explain returns the narrative explanation of a markdown report.
func (a *Analyst) Explain(ctx context.Context, markdown, question string) (string, error) {
	return a.Ask(ctx, Prompt(markdown, question))
}

// Ask sends a follow up question in the same chat.
func (a *Analyst) Ask(ctx context.Context, question string) (string, error) {
	if !a.expert.Started() {
		if err := a.expert.Start(ctx, a.client); err != nil {
			return "", err
		}
	}
	content, err := a.expert.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	return text(content), nil
}

const prompt = "explain> "

// Run starts an interactive session of follow up questions, until 'bye' or
// the end of r.
func (a *Analyst) Run(ctx context.Context, w io.Writer, r io.Reader, print func(string)) error {
	in := bufio.NewReader(r)
	fmt.Fprintln(w, "Ask follow up questions. Type 'bye' to exit.")
	for {
		fmt.Fprint(w, prompt)
		input, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "bye" || (input == "" && err == io.EOF) {
			return nil // Clean exit on Ctrl+D
		}
		if input == "" {
			continue
		}
		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		print(answer)
	}
}
