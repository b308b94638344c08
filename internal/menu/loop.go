// Package menu drives the numbered text menus of the terminal utilities.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/obs"
)

// Result is what a command hands back for display.
type Result struct {
	Lines []string
	Quit  bool
}

// Say builds a Result from lines.
func Say(lines ...string) Result {
	return Result{Lines: lines}
}

// Command is one numbered menu entry.
type Command struct {
	Key   string
	Label string
	Run   func(ctx context.Context, p *Prompt) (Result, error)
}

// Table is an ordered set of commands.
type Table []Command

// Find returns the command bound to key.
func (t Table) Find(key string) (Command, bool) {
	key = strings.TrimSpace(key)
	for _, c := range t {
		if c.Key == key {
			return c, true
		}
	}
	return Command{}, false
}

// Line renders the table on one line, e.g. "1. Apply Leave   2. View Roster".
func (t Table) Line() string {
	parts := make([]string, 0, len(t))
	for _, c := range t {
		parts = append(parts, c.Key+". "+c.Label)
	}
	return strings.Join(parts, "   ")
}

// Loop repeatedly shows Table and dispatches the chosen command.
type Loop struct {
	Title  string
	Table  Table
	In     io.Reader
	Out    io.Writer
	Logger zerolog.Logger
}

// Run blocks until input ends, a command quits or ctx is cancelled.
// Command errors are shown to the user and the loop continues.
func (l Loop) Run(ctx context.Context) error {
	prompt := NewPrompt(l.In, l.Out)
	logger := obs.Logger(ctx, l.Logger)
	if l.Title != "" {
		fmt.Fprintln(l.Out, l.Title)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(l.Out, "\n%s\n", l.Table.Line())
		choice, err := prompt.Text("Enter Choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		cmd, ok := l.Table.Find(choice)
		if !ok || cmd.Run == nil {
			fmt.Fprintln(l.Out, "Invalid Choice.")
			continue
		}
		res, err := cmd.Run(ctx, prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logger.Debug().Err(err).Str("command", cmd.Label).Str("kind", string(common.KindOf(err))).Msg("command failed")
			fmt.Fprintln(l.Out, common.Describe(err))
			continue
		}
		for _, line := range res.Lines {
			fmt.Fprintln(l.Out, line)
		}
		if res.Quit {
			return nil
		}
	}
}
