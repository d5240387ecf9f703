package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// maxToolRounds bounds the function call exchanges of a single question.
const maxToolRounds = 8

// questionArg is the argument carrying the question when an expert is called as a tool.
const questionArg = "question"

// Expert is a chat specialized by its system instruction and tools.
type Expert struct {
	Name        string
	Description string // read by the facilitator to decide whom to ask
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library
	Log         zerolog.Logger
	chat        *genai.Chat
}

// Start opens the chat of e.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("cannot start expert %s: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

// Ask sends question and resolves the function calls of the replies with
// e.Library until e answers with text.
func (e *Expert) Ask(ctx context.Context, question string) (string, error) {
	if e.chat == nil {
		return "", fmt.Errorf("expert %s is not started", e.Name)
	}
	parts := []*genai.Part{{Text: question}}
	for range maxToolRounds {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("expert %s: %w", e.Name, err)
		}
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			answer := resp.Text()
			if answer == "" {
				return "", fmt.Errorf("no answer from expert %s", e.Name)
			}
			return answer, nil
		}
		if len(e.Library) == 0 {
			return "", fmt.Errorf("expert %s called %s without any function to call", e.Name, calls[0].Name)
		}
		for _, c := range calls {
			e.Log.Debug().Str("expert", e.Name).Str("function", c.Name).Interface("args", c.Args).Msg("function call")
		}
		parts = e.Library.Resolve(ctx, calls)
	}
	return "", fmt.Errorf("expert %s is still calling functions after %d rounds", e.Name, maxToolRounds)
}

// Declaration declares e as a function taking a question.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				questionArg: {Type: genai.TypeString, Description: "The question for the " + e.Name + "."},
			},
			Required: []string{questionArg},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "The answer of the " + e.Name + "."},
	}
}

// Call asks e the question found in args.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args[questionArg].(string)
	if !ok {
		return failure(id, e.Name, fmt.Errorf("invalid %s type got %T, expected string", questionArg, args[questionArg]))
	}
	answer, err := e.Ask(ctx, question)
	if err != nil {
		return failure(id, e.Name, err)
	}
	e.Log.Debug().Str("expert", e.Name).Str("question", question).Str("answer", answer).Msg("expert call")
	return success(id, e.Name, answer)
}
