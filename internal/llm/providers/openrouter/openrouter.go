// internal/llm/providers/openrouter/openrouter.go
package openrouter

import (
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/llm/providers/openai"
)

func init() {
	llm.Register("openrouter", func() llm.Provider {
		return openai.New(openai.Preset{
			Name:         "openrouter",
			DisplayName:  "OpenRouter",
			BaseURL:      "https://openrouter.ai/api/v1",
			DefaultModel: "google/gemini-2.5-flash",
			Models: []string{
				"google/gemini-2.5-flash",
				"openai/gpt-4.1-mini",
				"qwen/qwen3-235b-a22b:free",
				"mistralai/devstral-2512:free",
			},
			// 请求来源和应用名称
			Headers: map[string]string{
				"HTTP-Referer": "https://github.com/Corphon/TubeGenius",
				"X-Title":      "TubeGenius",
			},
			StructuredOutputs: true,
		})
	})
}
