// internal/services/prompts.go
package services

import (
	"fmt"

	"github.com/Corphon/TubeGenius/internal/models"
)

// 输出语言固定为韩语
const scriptOutputLanguage = "Korean"

// BuildAnalyzePrompt 脚本分析提示词
func BuildAnalyzePrompt(scriptText string) string {
	return fmt.Sprintf(`Analyze the following YouTube video script provided in the input.
Provide a critique on the hook, pacing, and expected audience retention.
Give a score out of 100.

Script:
%s`, scriptText)
}

// BuildTopicsPrompt 选题推荐提示词
func BuildTopicsPrompt(nicheOrContext string) string {
	return fmt.Sprintf(`You are a YouTube strategist. Based on the following context (which could be a niche, a previous script, or a topic), suggest 5 high-potential, viral video ideas.

Context: %s`, nicheOrContext)
}

// BuildScriptPrompt 脚本生成提示词，要求 Markdown 输出
func BuildScriptPrompt(cfg models.ScriptConfig) string {
	return fmt.Sprintf(`Write a complete YouTube video script.

Topic: %s
Tone: %s
Target Duration: %s
Target Audience: %s

Format the output in Markdown.
Include:
1. Title Options
2. Thumbnail Concept
3. Hook (0:00-0:45) - Make it very gripping.
4. Intro
5. Body Paragraphs (with visual cues in brackets like [Visual: Show graph])
6. Call to Action (Subscribe/Like)
7. Outro

Write in %s.`, cfg.Topic, cfg.Tone, cfg.Duration, cfg.TargetAudience, scriptOutputLanguage)
}
