package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
)

func TestReadPrompt(t *testing.T) {
	prompt, err := readPrompt(strings.NewReader(`{"prompt":"generate a PDF report"}`))
	gt.NoError(t, err)
	gt.Equal(t, prompt, "generate a PDF report")

	prompt, err = readPrompt(strings.NewReader(`{"message":"fallback field"}`))
	gt.NoError(t, err)
	gt.Equal(t, prompt, "fallback field")

	// Raw text passes through as the prompt itself
	prompt, err = readPrompt(strings.NewReader("plain prompt text\n"))
	gt.NoError(t, err)
	gt.Equal(t, prompt, "plain prompt text")

	prompt, err = readPrompt(strings.NewReader(""))
	gt.NoError(t, err)
	gt.Equal(t, prompt, "")
}

func TestHookActionSwallowsErrors(t *testing.T) {
	action := hookAction(func(ctx context.Context, c *cli.Command) error {
		return goerr.New("index exploded")
	})
	gt.NoError(t, action(context.Background(), &cli.Command{}))
}

func TestHookActionPassesExitCodes(t *testing.T) {
	action := hookAction(func(ctx context.Context, c *cli.Command) error {
		return cli.Exit("", 2)
	})

	err := action(context.Background(), &cli.Command{})
	gt.Error(t, err)

	exitErr, ok := err.(cli.ExitCoder)
	gt.True(t, ok)
	gt.Equal(t, exitErr.ExitCode(), 2)
}
