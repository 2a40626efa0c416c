package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wintriage/internal/engine"
	"wintriage/internal/llm"
	"wintriage/internal/output"
)

// AskCmd asks the model a single question about a snapshot
type AskCmd struct {
	Question string        `arg:"" help:"Question to ask about the collected events"`
	Input    string        `short:"i" default:"${config_snapshot}" help:"Snapshot file to read"`
	Model    string        `short:"m" default:"${config_model}" help:"Model to query"`
	Budget   int           `default:"${config_budget}" help:"Report character budget inside the prompt"`
	Network  bool          `default:"${config_network}" negatable:"" help:"Include the network section in the prompt"`
	Timeout  time.Duration `default:"2m" help:"Abort the model request after this long"`
}

// Run executes the ask command
func (c *AskCmd) Run(globals *Globals) error {
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

	builder := llm.PromptBuilder{
		MaxContextChars:    c.Budget,
		IncludeNetworkInfo: c.Network,
	}
	prompt, err := builder.Build(engine.New(globals.Logger), snap, c.Question)
	if err != nil {
		return outputErrorCommon(globals, codeMalformedSnapshot, err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	if !globals.Quiet && globals.Format != "ndjson" {
		fmt.Fprintf(globals.Stderr, "Asking %s...\n", c.Model)
	}

	answer, latency, err := client.Ask(ctx, prompt)
	if err != nil {
		return outputErrorCommon(globals, codeModelUnavailable, err.Error())
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteAnswer(&output.AnswerOutput{
			Model:       c.Model,
			Question:    c.Question,
			Answer:      answer,
			LatencySecs: latency.Seconds(),
		})
	}

	fmt.Fprintln(globals.Stdout, answer)
	return nil
}
