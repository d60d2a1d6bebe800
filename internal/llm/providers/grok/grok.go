// internal/llm/providers/grok/grok.go
package grok

import (
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/llm/providers/openai"
)

func init() {
	llm.Register("grok", func() llm.Provider {
		return openai.New(openai.Preset{
			Name:              "grok",
			DisplayName:       "xAI Grok",
			BaseURL:           "https://api.x.ai/v1",
			DefaultModel:      "grok-3-mini",
			Models:            []string{"grok-4", "grok-4-fast", "grok-3", "grok-3-mini"},
			StructuredOutputs: true,
		})
	})
}
