package generator

import (
	"context"
	"strings"
)

// MockLLM is an offline stand-in for local debugging; it never calls a model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt RenderedPrompt) (string, error) {
	// Echo the prompt back inside a minimal brief skeleton.
	var sb strings.Builder
	sb.WriteString("# Sample Content Brief\n\n")
	sb.WriteString("This brief was produced by the mock backend.\n\n")
	sb.WriteString("## Prompt\n\n")
	sb.WriteString("```\n")
	sb.WriteString(string(prompt))
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
