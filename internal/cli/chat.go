package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/aura/pkg/domain"
)

// Processor runs one turn.
type Processor interface {
	Process(ctx context.Context, req *domain.Request) (*domain.Response, error)
}

// ChatOptions configures the console conversation.
type ChatOptions struct {
	In     io.Reader
	Out    io.Writer
	UserID string
	// Render formats replies. Defaults to the plain reply text.
	Render func(domain.Reply) string
	// Prompt is printed before reading each line.
	Prompt string
}

// Chat drives a conversation from a line-oriented reader, one line per turn.
// It returns when the conversation ends, the input is exhausted or the user types "exit".
func Chat(ctx context.Context, p Processor, opts ChatOptions) error {
	render := opts.Render
	if render == nil {
		render = func(r domain.Reply) string { return r.Text }
	}
	userID := opts.UserID
	if userID == "" {
		userID = "console"
	}

	turn := func(command string, isNew bool) (bool, error) {
		resp, err := p.Process(ctx, &domain.Request{
			Version: "1.0",
			Session: &domain.RequestSession{New: isNew, UserID: userID},
			Request: &domain.Utterance{Command: command, OriginalUtterance: command},
		})
		if err != nil {
			return false, err
		}
		fmt.Fprintln(opts.Out, render(resp.Response))
		return resp.Response.EndSession, nil
	}

	if _, err := turn("", true); err != nil {
		return err
	}

	scanner := bufio.NewScanner(opts.In)
	for {
		if opts.Prompt != "" {
			fmt.Fprint(opts.Out, opts.Prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}

		ended, err := turn(line, false)
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
