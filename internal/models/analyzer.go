// internal/models/analyzer.go
package models

// Sentiment 表示脚本整体情绪倾向
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// SentimentValues 为响应 schema 声明的枚举值
var SentimentValues = []string{
	string(SentimentPositive),
	string(SentimentNeutral),
	string(SentimentNegative),
}

// ScoreBand 分数档位，对应前端分数条的颜色
type ScoreBand string

const (
	ScoreBandHigh   ScoreBand = "high"
	ScoreBandMedium ScoreBand = "medium"
	ScoreBandLow    ScoreBand = "low"
)

// ScriptAnalysis 表示一次脚本分析的结果，所有字段都是必填的
type ScriptAnalysis struct {
	Score             int       `json:"score"`             // 0-100
	HookAnalysis      string    `json:"hookAnalysis"`      // 前30秒的分析
	Pacing            string    `json:"pacing"`            // 节奏点评
	AudienceRetention string    `json:"audienceRetention"` // 预测的流失点/高峰
	Keywords          []string  `json:"keywords"`          // 期望 5 个
	Improvements      []string  `json:"improvements"`      // 期望 3 条
	Sentiment         Sentiment `json:"sentiment"`
}

// ScoreBand 根据分数返回档位：>80 高，>50 中，其余为低
func (a *ScriptAnalysis) ScoreBand() ScoreBand {
	switch {
	case a.Score > 80:
		return ScoreBandHigh
	case a.Score > 50:
		return ScoreBandMedium
	default:
		return ScoreBandLow
	}
}
