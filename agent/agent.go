// Package agent runs a Gemini chat session about the user's portfolio.
//
// The user talks to a facilitator that delegates questions to experts: an
// analyst reading the portfolio reports and a trader grounded in the news.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Settings describe the portfolio the session is about.
type Settings struct {
	Model string
	Owner string
	Home  string // currency
}

// Agent is an interactive session with the facilitator.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	settings    Settings
	Facilitator *Expert
	Experts     []*Expert
	// Print writes an answer, in markdown, to w.
	Print func(w io.Writer, markdown string)
}

// New creates a session talking on w and listening on r.
func New(w io.Writer, r io.Reader, s Settings, experts ...*Expert) *Agent {
	if s.Model == "" {
		s.Model = DefaultModel
	}
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		settings:    s,
		Experts:     experts,
		Facilitator: newFacilitator(s, experts...),
		Print:       func(w io.Writer, s string) { fmt.Fprintln(w, s) },
	}
}

// Start opens the chats of the experts and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// Run starts the session. questions are asked first, as if the user typed them.
func (a *Agent) Run(ctx context.Context, client *genai.Client, questions ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.converse(ctx, a.Facilitator.Ask, questions)
}

// converse reads questions until "bye" or the end of input. A failed answer
// is reported and the session goes on.
func (a *Agent) converse(ctx context.Context, ask func(context.Context, string) (string, error), queued []string) error {
	fmt.Fprintf(a.w, "Assistant for the portfolio of %s, in %s. Type 'bye' to exit.\n", a.settings.Owner, a.settings.Home)
	for {
		input, err := a.next(&queued)
		if errors.Is(err, io.EOF) {
			return nil // Ctrl+D
		}
		if err != nil {
			return err
		}
		switch strings.ToLower(input) {
		case "":
			continue
		case "bye", "exit", "quit":
			return nil
		}
		answer, err := ask(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(a.w, "Error:", err)
			continue
		}
		a.Print(a.w, answer)
	}
}

// next prompts for the next question, taken from queued first.
func (a *Agent) next(queued *[]string) (string, error) {
	fmt.Fprint(a.w, prompt)
	if len(*queued) > 0 {
		input := strings.TrimSpace((*queued)[0])
		*queued = (*queued)[1:]
		fmt.Fprintln(a.w, input)
		return input, nil
	}
	line, err := a.r.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil // last line without a newline
	}
	return strings.TrimSpace(line), err
}
