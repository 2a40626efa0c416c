package llm

import (
	"fmt"
	"strings"

	"wintriage/internal/domain"
	"wintriage/internal/engine"
)

// DefaultMaxContextChars is the default ceiling on the report embedded
// in a prompt. The formatter enforces it; this package only decides it.
const DefaultMaxContextChars = 100000

// PromptBuilder assembles the prompt sent to the model: a persona
// preamble built from the host facts, the bounded report, and the user
// question. It is the formatter's direct caller and therefore owns the
// character budget.
type PromptBuilder struct {
	// MaxContextChars is passed to the formatter as the report budget.
	// Zero means DefaultMaxContextChars.
	MaxContextChars int

	// IncludeNetworkInfo toggles the report's network section.
	IncludeNetworkInfo bool
}

// Build renders the snapshot through the engine and wraps it with the
// persona preamble and the user question.
func (p *PromptBuilder) Build(eng *engine.Engine, snap *domain.Snapshot, question string) (string, error) {
	budget := p.MaxContextChars
	if budget <= 0 {
		budget = DefaultMaxContextChars
	}

	report, err := eng.BuildReport(snap, engine.FormatOptions{
		BudgetChars:        budget,
		IncludeNetworkInfo: p.IncludeNetworkInfo,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(persona(snap.SystemFacts))
	b.WriteString("\n\nLog Data:\n")
	b.WriteString(report)
	b.WriteString("\n\nUser Query: ")
	b.WriteString(question)
	return b.String(), nil
}

// persona personalizes the system context with the host's identity so
// answers reference the machine under triage.
func persona(facts domain.SystemFacts) string {
	name := facts.ComputerName
	if name == "" || name == "Unknown" {
		name = "this computer"
	}
	os := facts.OSVersion
	if os == "" || os == "Unknown" {
		os = "Windows"
	}
	return fmt.Sprintf(
		"You are %s, a %s computer. You have been given a summarized collection "+
			"of your most recent event logs to aid in troubleshooting. Be technical "+
			"and concise, and support your conclusions with the events you are given. "+
			"If the question is not about the logs, answer directly without analyzing them.",
		name, os)
}
