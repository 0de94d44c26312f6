package agent

import (
	"fmt"
	"strings"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

const toolCallTemplate = `{"tool_call":{"name":"...","parameters":{...}}}`

// buildToolCatalog renders the available tools as a block appended to the
// system prompt, including the literal JSON shape a tool call must take.
// Returns "" when there are no tools, so the caller can skip appending it.
func buildToolCatalog(tools []models.ToolMetadata) string {
	if len(tools) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("You have access to tools. To call one, respond with exactly one JSON object of the form ")
	b.WriteString(toolCallTemplate)
	b.WriteString(" and nothing else in that turn.\n\nAvailable tools:\n")
	for _, t := range tools {
		b.WriteString(fmt.Sprintf("- %s: %s\n", t.Name, t.Description))
		for _, p := range t.Parameters {
			requirement := "optional"
			if p.Required {
				requirement = "required"
			}
			b.WriteString(fmt.Sprintf("    %s (%s, %s): %s\n", p.Name, p.Type, requirement, p.Description))
		}
	}
	return b.String()
}

// identityPreamble renders an agent's name/expertise/personality as a short
// block prepended to its base system prompt.
func identityPreamble(displayName, expertise, personality string) string {
	var parts []string
	if displayName != "" {
		parts = append(parts, fmt.Sprintf("You are %s.", displayName))
	}
	if expertise != "" {
		parts = append(parts, "Expertise: "+expertise+".")
	}
	if personality != "" {
		parts = append(parts, "Personality: "+personality+".")
	}
	return strings.Join(parts, " ")
}

// effectiveSystemPrompt assembles identity + base prompt + tool catalog,
// skipping empty sections.
func effectiveSystemPrompt(displayName, expertise, personality, basePrompt string, tools []models.ToolMetadata) string {
	sections := make([]string, 0, 3)
	if identity := identityPreamble(displayName, expertise, personality); identity != "" {
		sections = append(sections, identity)
	}
	if basePrompt != "" {
		sections = append(sections, basePrompt)
	}
	if catalog := buildToolCatalog(tools); catalog != "" {
		sections = append(sections, catalog)
	}
	return strings.Join(sections, "\n\n")
}
