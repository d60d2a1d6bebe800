// internal/models/script.go
package models

import "slices"

// 语气选项（与前端下拉框保持一致）
var ToneOptions = []string{
	"친근하고 유머러스한",
	"전문적이고 진지한",
	"에너지가 넘치고 빠른",
	"감성적이고 차분한",
	"논란을 일으키는/자극적인",
}

// 目标时长选项
var DurationOptions = []string{
	"Shorts (1분 미만)",
	"3-5분",
	"8-10분",
	"15분 이상",
}

const (
	DefaultTone     = "친근하고 유머러스한"
	DefaultDuration = "8-10분"
	DefaultAudience = "20-30대 일반인"
)

// ScriptConfig 生成脚本所需的输入参数，只用于构建提示词，不做持久化
type ScriptConfig struct {
	Topic          string `json:"topic"`
	Tone           string `json:"tone"`
	Duration       string `json:"duration"`
	TargetAudience string `json:"targetAudience"`
}

// DefaultScriptConfig 返回带默认语气/时长/受众的配置
func DefaultScriptConfig() ScriptConfig {
	return ScriptConfig{
		Tone:           DefaultTone,
		Duration:       DefaultDuration,
		TargetAudience: DefaultAudience,
	}
}

// IsValidTone 检查语气是否属于固定选项
func IsValidTone(tone string) bool {
	return slices.Contains(ToneOptions, tone)
}

// IsValidDuration 检查时长是否属于固定选项
func IsValidDuration(duration string) bool {
	return slices.Contains(DurationOptions, duration)
}

// GeneratedScript 生成的脚本，Content 为 Markdown 文本，不再拆分字段
type GeneratedScript struct {
	Config  ScriptConfig `json:"config"`
	Content string       `json:"content"`
	HTML    string       `json:"html,omitempty"`
}
