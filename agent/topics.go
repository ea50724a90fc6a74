package agent

import (
	"context"

	"github.com/etnz/snapdiff/docs"
	"google.golang.org/genai"
)

// topicDeclaration lets the model read the documentation topics, for instance
// to learn how composite keys or percentage changes are defined.
var topicDeclaration = &genai.FunctionDeclaration{
	Name:        "read_topic",
	Description: "Read a snapdiff documentation topic. Topic 'readme' lists the others.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic": {
				Type:        genai.TypeString,
				Description: "The topic name, e.g. 'keys'.",
			},
		},
		Required: []string{"topic"},
	},
}

// readTopic answers a read_topic call. An unknown topic is answered with the
// list of available ones.
func readTopic(_ context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
	fresp := &genai.FunctionResponse{ID: call.ID, Name: call.Name}
	topic, ok := call.Args["topic"].(string)
	if !ok {
		fresp.Response = map[string]any{"error": "missing string argument 'topic'"}
		return fresp
	}
	content, err := docs.Get(topic)
	if err != nil {
		fresp.Response = map[string]any{"error": err.Error()}
		return fresp
	}
	fresp.Response = map[string]any{"output": content}
	return fresp
}
