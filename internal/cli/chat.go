package cli

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"wintriage/internal/engine"
	"wintriage/internal/llm"
	"wintriage/internal/tui"
)

// ChatCmd starts an interactive chat session over a snapshot
type ChatCmd struct {
	Input   string `short:"i" default:"${config_snapshot}" help:"Snapshot file to read"`
	Model   string `short:"m" default:"${config_model}" help:"Model to query"`
	Budget  int    `default:"${config_budget}" help:"Report character budget inside the prompt"`
	Network bool   `default:"${config_network}" negatable:"" help:"Include the network section in the prompt"`
}

// Run executes the chat command
func (c *ChatCmd) Run(globals *Globals) error {
	snap, err := loadSnapshot(globals, c.Input)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(llm.Config{
		APIKey:     globals.Config.Model.APIKey,
		Model:      c.Model,
		BaseURL:    globals.Config.Model.BaseURL,
		MaxRetries: globals.Config.Model.MaxRetries,
	}, globals.Logger)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return outputErrorCommon(globals, codeMissingAPIKey,
				"no API key configured (set WINTRIAGE_API_KEY or GEMINI_API_KEY)")
		}
		return outputErrorCommon(globals, codeModelUnavailable, err.Error())
	}

	eng := engine.New(globals.Logger)
	builder := llm.PromptBuilder{
		MaxContextChars:    c.Budget,
		IncludeNetworkInfo: c.Network,
	}

	ask := func(ctx context.Context, question string) (string, time.Duration, error) {
		prompt, err := builder.Build(eng, snap, question)
		if err != nil {
			return "", 0, err
		}
		return client.Ask(ctx, prompt)
	}

	program := tea.NewProgram(
		tui.New(ask, snap, c.Model),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return outputErrorCommon(globals, codeModelUnavailable, err.Error())
	}
	return nil
}
