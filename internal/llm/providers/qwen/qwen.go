// internal/llm/providers/qwen/qwen.go
package qwen

import (
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/llm/providers/openai"
)

func init() {
	llm.Register("qwen", func() llm.Provider {
		return openai.New(openai.Preset{
			Name:         "qwen",
			DisplayName:  "通义千问",
			BaseURL:      "https://dashscope.aliyuncs.com/compatible-mode/v1",
			DefaultModel: "qwen-plus",
			Models:       []string{"qwen-plus", "qwen-max", "qwen-turbo", "qwen3-max"},
			// 兼容模式只支持 json_object
			StructuredOutputs: false,
		})
	})
}
