package agent

import (
	"strings"
	"testing"

	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

func TestBuildToolCatalogEmpty(t *testing.T) {
	if buildToolCatalog(nil) != "" {
		t.Fatalf("expected empty catalog for no tools")
	}
}

func TestBuildToolCatalogIncludesTemplateAndTools(t *testing.T) {
	catalog := buildToolCatalog([]models.ToolMetadata{
		{Name: "search", Description: "web search", Parameters: []models.ToolParameter{
			{Name: "query", Type: models.ParamString, Required: true, Description: "search text"},
		}},
	})
	if !strings.Contains(catalog, toolCallTemplate) {
		t.Fatalf("expected literal tool_call template in catalog")
	}
	if !strings.Contains(catalog, "search") || !strings.Contains(catalog, "query") {
		t.Fatalf("expected tool and parameter names in catalog, got %q", catalog)
	}
}

func TestEffectiveSystemPromptSkipsEmptySections(t *testing.T) {
	prompt := effectiveSystemPrompt("", "", "", "base prompt", nil)
	if prompt != "base prompt" {
		t.Fatalf("expected only base prompt when identity/catalog are empty, got %q", prompt)
	}
}

func TestEffectiveSystemPromptIncludesIdentity(t *testing.T) {
	prompt := effectiveSystemPrompt("Helper", "Go", "terse", "base", nil)
	if !strings.Contains(prompt, "Helper") || !strings.Contains(prompt, "Go") || !strings.Contains(prompt, "terse") {
		t.Fatalf("expected identity fields in prompt, got %q", prompt)
	}
}
