package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/harrier/pkg/model"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// hookAction degrades failures to exit 0: a broken retrieval setup must
// never break the host session. An ExitCoder passes through because exit
// code 2 is the active-surface signal, not a failure.
func hookAction(fn func(ctx context.Context, c *cli.Command) error) func(ctx context.Context, c *cli.Command) error {
	return func(ctx context.Context, c *cli.Command) error {
		err := fn(ctx, c)
		if err == nil {
			return nil
		}

		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			return err
		}

		logging.From(ctx).Warn("hook degraded to no-op", "error", err)
		return nil
	}
}

// promptInput is the UserPromptSubmit hook payload
type promptInput struct {
	Prompt  string `json:"prompt"`
	Message string `json:"message"`
}

// readPrompt extracts the prompt from hook stdin. Non-JSON input is
// treated as the prompt itself.
func readPrompt(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var input promptInput
	if err := json.Unmarshal(data, &input); err == nil {
		if input.Prompt != "" {
			return input.Prompt, nil
		}
		if input.Message != "" {
			return input.Message, nil
		}
	}
	return strings.TrimSpace(string(data)), nil
}

func enrichCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "enrich",
		Usage: "UserPromptSubmit hook: enrich a prompt with relevant skills (JSON in/out)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			prompt, err := readPrompt(c.Root().Reader)
			if err != nil || prompt == "" {
				return nil
			}

			type enrichOutput struct {
				Prompt        string `json:"prompt"`
				DynamicSkills string `json:"dynamic_skills,omitempty"`
			}
			encoder := json.NewEncoder(c.Root().Writer)

			uc, err := cfg.newRetrieval(ctx)
			if err != nil {
				logging.From(ctx).Warn("enrich degraded to passthrough", "error", err)
				return encoder.Encode(enrichOutput{Prompt: prompt})
			}

			out, err := uc.Enrich(ctx, prompt)
			if err != nil {
				logging.From(ctx).Warn("enrich degraded to passthrough", "error", err)
				return encoder.Encode(enrichOutput{Prompt: prompt})
			}

			return encoder.Encode(enrichOutput{
				Prompt:        out.Prompt,
				DynamicSkills: out.DynamicSkills,
			})
		},
	}
}

func suggestCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "suggest",
		Usage: "UserPromptSubmit hook: print skill suggestions for a prompt",
		Flags: flags,
		Action: hookAction(func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			prompt, err := readPrompt(c.Root().Reader)
			if err != nil || prompt == "" {
				return nil
			}

			uc, err := cfg.newRetrieval(ctx, retrieval.WithOutput(c.Root().Writer))
			if err != nil {
				return err
			}

			_, err = uc.Suggest(ctx, prompt)
			return err
		}),
	}
}

// toolInput is the PostToolUse hook payload
type toolInput struct {
	ToolName  string `json:"tool_name"`
	ToolInput struct {
		FilePath string `json:"file_path"`
	} `json:"tool_input"`
}

func catalogCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "catalog",
		Usage: "PostToolUse hook: surface skills relevant to a file the agent just read",
		Flags: flags,
		Action: hookAction(func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.loggerContext(ctx)

			data, err := io.ReadAll(c.Root().Reader)
			if err != nil {
				return err
			}

			var input toolInput
			if err := json.Unmarshal(data, &input); err != nil || input.ToolInput.FilePath == "" {
				// Not a file-reading tool invocation
				return nil
			}

			content, err := os.ReadFile(input.ToolInput.FilePath)
			if err != nil {
				// The tool may have read something already gone; stay quiet
				logging.From(ctx).Debug("cannot sample file", "path", input.ToolInput.FilePath, "error", err)
				content = nil
			}

			// Active notifications go to stderr: PostToolUse hooks surface
			// text to the agent through exit code 2
			uc, err := cfg.newRetrieval(ctx, retrieval.WithOutput(os.Stderr))
			if err != nil {
				return err
			}

			result, err := uc.Catalog(ctx, input.ToolInput.FilePath, string(content))
			if err != nil {
				return err
			}

			if result.Directive == model.DirectiveNotify {
				return cli.Exit("", 2)
			}
			return nil
		}),
	}
}
