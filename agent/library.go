package agent

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"google.golang.org/genai"
)

// Function is a tool a chat can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// Library holds the functions of a chat by name.
type Library map[string]Function

// NewLibrary indexes functions by their declared name. A later function
// replaces an earlier one with the same name.
func NewLibrary(functions ...Function) Library {
	l := make(Library, len(functions))
	for _, f := range functions {
		l[f.Declaration().Name] = f
	}
	return l
}

// Declarations returns the declarations sorted by name.
func (l Library) Declarations() []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(l))
	for _, name := range slices.Sorted(maps.Keys(l)) {
		result = append(result, l[name].Declaration())
	}
	return result
}

// Call runs the function named by call.
func (l Library) Call(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
	f, ok := l[call.Name]
	if !ok {
		return failure(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
	}
	return f.Call(ctx, call.ID, call.Args)
}

// Resolve runs every call, in order, and returns the parts answering them.
func (l Library) Resolve(ctx context.Context, calls []*genai.FunctionCall) []*genai.Part {
	parts := make([]*genai.Part, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, &genai.Part{FunctionResponse: l.Call(ctx, call)})
	}
	return parts
}

// Tool is a Function made of a declaration and the code running it.
type Tool struct {
	Decl *genai.FunctionDeclaration
	Run  func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (t *Tool) Declaration() *genai.FunctionDeclaration { return t.Decl }

func (t *Tool) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return t.Run(ctx, id, args)
}

func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}

func success(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}
