// internal/llm/providers/githubmodels/github.go
package githubmodels

import (
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/llm/providers/openai"
)

func init() {
	llm.Register("githubmodels", func() llm.Provider {
		return openai.New(openai.Preset{
			Name:         "githubmodels",
			DisplayName:  "GitHub Models",
			BaseURL:      "https://models.inference.ai.azure.com",
			DefaultModel: "gpt-4o-mini",
			Models: []string{
				"gpt-4o-mini",
				"gpt-4o",
				"o3-mini",
				"Phi-4",
			},
			StructuredOutputs: true,
		})
	})
}
