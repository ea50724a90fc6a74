package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Library answers the function calls made by a model. Errors are reported
// in the response, for the model to read.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Expert represent a chat with a business expert.
type Expert struct {
	Name      string                       `json:"name"`
	ModelName string                       `json:"model_name"`
	Config    *genai.GenerateContentConfig `json:"config"`
	Library   Library
	chat      *genai.Chat
}

// Start creates the chat session. Experts keep the context of previous questions.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("cannot start %s chat: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

// Started reports whether Start was successful.
func (e *Expert) Started() bool { return e.chat != nil }

// Ask is a simple wrapper on top of Chat.Send to make it simpler for callbacks.
//
// Function calls requested by the model are answered using the expert's
// Library until the model responds with text.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	resp, err := e.chat.Send(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from expert %s", e.Name)
	}
	part0 := resp.Candidates[0].Content.Parts[0]
	if part0.FunctionCall != nil {
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
		}

		// Errors are sent back in the function response.
		resp := e.Library(ctx, part0.FunctionCall)

		// Ask again with the response until we have a real response.
		return e.Ask(ctx, &genai.Part{FunctionResponse: resp})
	}
	return resp.Candidates[0].Content, nil
}

// text joins the text parts of a content.
func text(c *genai.Content) string {
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}
