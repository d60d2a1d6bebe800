// internal/llm/providers/glm/glm.go
package glm

import (
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/llm/providers/openai"
)

func init() {
	llm.Register("glm", func() llm.Provider {
		return openai.New(openai.Preset{
			Name:              "glm",
			DisplayName:       "智谱 GLM",
			BaseURL:           "https://open.bigmodel.cn/api/paas/v4",
			DefaultModel:      "glm-4.5-air",
			Models:            []string{"glm-4.5-air", "glm-4.5", "glm-4.6", "glm-4-plus"},
			StructuredOutputs: false,
		})
	})
}
