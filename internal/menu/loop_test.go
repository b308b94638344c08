package menu_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/menu"
)

func echoTable(calls *int) menu.Table {
	return menu.Table{
		{Key: "1", Label: "Echo", Run: func(_ context.Context, p *menu.Prompt) (menu.Result, error) {
			*calls++
			n, err := p.Int("Number: ", "number")
			if err != nil {
				return menu.Result{}, err
			}
			return menu.Say(fmt.Sprintf("got %d", n)), nil
		}},
		{Key: "2", Label: "Missing", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			return menu.Result{}, fmt.Errorf("employee 9: %w", common.ErrNotFound)
		}},
		{Key: "3", Label: "Exit", Run: func(context.Context, *menu.Prompt) (menu.Result, error) {
			return menu.Result{Lines: []string{"bye"}, Quit: true}, nil
		}},
	}
}

func TestLoopDispatchesAndQuits(t *testing.T) {
	var out bytes.Buffer
	calls := 0
	loop := menu.Loop{
		Title: "Demo",
		Table: echoTable(&calls),
		In:    strings.NewReader("1\n42\n9\n1\nabc\n2\n3\n1\n7\n"),
		Out:   &out,
	}
	require.NoError(t, loop.Run(context.Background()))

	text := out.String()
	require.Contains(t, text, "1. Echo   2. Missing   3. Exit")
	require.Contains(t, text, "got 42")
	require.Contains(t, text, "Invalid Choice.")
	require.Contains(t, text, "Error: number must be a number")
	require.Contains(t, text, "Error: employee 9: not found")
	require.Contains(t, text, "bye")
	require.NotContains(t, text, "got 7")
	require.Equal(t, 2, calls)
}

func TestLoopEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	calls := 0
	loop := menu.Loop{Table: echoTable(&calls), In: strings.NewReader("1\n"), Out: &out}
	require.NoError(t, loop.Run(context.Background()))
	require.Equal(t, 1, calls)
}

func TestLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop := menu.Loop{Table: echoTable(new(int)), In: strings.NewReader("1\n5\n"), Out: &bytes.Buffer{}}
	err := loop.Run(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestPromptHelpers(t *testing.T) {
	p := menu.NewPrompt(strings.NewReader("  yes \nNo\nY\nYES\n$12.50\n12.345\n"), &bytes.Buffer{})

	ok, err := p.YesNo("VIP? ")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = p.YesNo("VIP? ")
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = p.YesNo("VIP? ")
	require.NoError(t, err)
	require.False(t, ok, "only the full word counts")
	ok, err = p.YesNo("VIP? ")
	require.NoError(t, err)
	require.True(t, ok)

	m, err := p.Money("Price: ")
	require.NoError(t, err)
	require.Equal(t, int64(1250), m)
	_, err = p.Money("Price: ")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = p.Text("more: ")
	require.Error(t, err)
}

func TestTableFind(t *testing.T) {
	table := echoTable(new(int))
	cmd, ok := table.Find(" 3 ")
	require.True(t, ok)
	require.Equal(t, "Exit", cmd.Label)
	_, ok = table.Find("4")
	require.False(t, ok)
}
