// internal/app/providers.go
package app

// 注册所有模型提供者
import (
	_ "github.com/Corphon/TubeGenius/internal/llm/providers/githubmodels"
	_ "github.com/Corphon/TubeGenius/internal/llm/providers/glm"
	_ "github.com/Corphon/TubeGenius/internal/llm/providers/google"
	_ "github.com/Corphon/TubeGenius/internal/llm/providers/grok"
	_ "github.com/Corphon/TubeGenius/internal/llm/providers/openai"
	_ "github.com/Corphon/TubeGenius/internal/llm/providers/openrouter"
	_ "github.com/Corphon/TubeGenius/internal/llm/providers/qwen"
)
