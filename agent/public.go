package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Reports gives experts read access to the user's portfolio, as markdown documents.
type Reports interface {
	Dashboard(ctx context.Context) (string, error)
	History(ctx context.Context, rows int) (string, error)
	Journal(ctx context.Context) (string, error)
}

func instruction(s string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: s}}}
}

// newFacilitator creates the expert the user talks to, about the portfolio of s.
func newFacilitator(s Settings, experts ...*Expert) *Expert {
	functions := make([]Function, 0, len(experts))
	for _, e := range experts {
		functions = append(functions, e)
	}
	lib := NewLibrary(functions...)
	return &Expert{
		Name:      "Facilitator",
		ModelName: s.Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: lib.Declarations()},
			},
			SystemInstruction: instruction(fmt.Sprintf(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			The experts in your Tools are at your service and keep context of your previous questions.

			The user, %s, owns a portfolio of stocks, funds and crypto currencies valued in %s.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Always check the portfolio with the Analyst before commenting on it.
			Amounts are in %[2]s unless a report says otherwise.
			You never give personal financial advice, you explain figures and news.`, s.Owner, s.Home)),
		},
		Library: lib,
	}
}

// NewTrader creates an expert grounded with Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of financial products, markets and the latest news about funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading, you can search and find about anything related to
			financial institutions, companies, markets and funds. You leverage Google Search to
			ground your assertions.`),
		},
	}
}

// NewAnalyst creates the expert that reads the user's portfolio reports.
func NewAnalyst(model string, r Reports) *Expert {
	lib := NewLibrary(analystFunctions(r)...)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It reads the user's portfolio: current value, invested capital,
		profit, allocation, history of equity and ROI, drawdown, benchmarks and the transaction journal.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: lib.Declarations()},
			},
			SystemInstruction: instruction(`
			You are the analyst of the user's portfolio.
			Use the Tools to read the dashboard, the history and the journal, then answer with figures.
			Mention the data issues listed in the reports when they affect your answer.`),
		},
		Library: lib,
	}
}

func analystFunctions(r Reports) []Function {
	markdown := &genai.Schema{Type: genai.TypeString, Description: "A markdown document."}
	return []Function{
		&Tool{
			Decl: &genai.FunctionDeclaration{
				Name:        "Dashboard",
				Description: "Dashboard returns the headline figures, the valued positions, the allocation, the benchmarks and the data issues.",
				Parameters:  &genai.Schema{Type: genai.TypeObject},
				Response:    markdown,
			},
			Run: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				return reply(id, "Dashboard")(r.Dashboard(ctx))
			},
		},
		&Tool{
			Decl: &genai.FunctionDeclaration{
				Name:        "History",
				Description: "History returns the daily equity, invested capital, ROI, drawdown and per symbol contribution, most recent last.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"rows": {Type: genai.TypeInteger, Description: "The number of most recent days to return, 30 by default."},
					},
				},
				Response: markdown,
			},
			Run: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				rows, err := intArg(args, "rows", 30)
				if err != nil {
					return failure(id, "History", err)
				}
				return reply(id, "History")(r.History(ctx, rows))
			},
		},
		&Tool{
			Decl: &genai.FunctionDeclaration{
				Name:        "Journal",
				Description: "Journal returns every transaction, newest first, with its profit and note.",
				Parameters:  &genai.Schema{Type: genai.TypeObject},
				Response:    markdown,
			},
			Run: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				return reply(id, "Journal")(r.Journal(ctx))
			},
		},
	}
}

func reply(id, name string) func(string, error) *genai.FunctionResponse {
	return func(out string, err error) *genai.FunctionResponse {
		if err != nil {
			return failure(id, name, err)
		}
		return success(id, name, out)
	}
}

// intArg reads an integer argument, function call arguments are decoded from JSON.
func intArg(args map[string]any, name string, def int) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	return def, fmt.Errorf("argument %q is not a number as expected but %T", name, v)
}
