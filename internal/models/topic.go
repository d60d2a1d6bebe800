// internal/models/topic.go
package models

// TopicSuggestion AI 推荐的视频选题
type TopicSuggestion struct {
	Title         string  `json:"title"`
	ThumbnailIdea string  `json:"thumbnailIdea"`
	ViralityScore float64 `json:"viralityScore"` // 期望范围 1-10
	Reasoning     string  `json:"reasoning"`
}

// View 表示当前激活的页面
type View string

const (
	ViewAnalyzer  View = "analyzer"
	ViewIdeas     View = "ideas"
	ViewGenerator View = "generator"
)

// Views 全部页面，顺序与导航栏一致
var Views = []View{ViewAnalyzer, ViewIdeas, ViewGenerator}

// IsValid 判断是否为已知页面
func (v View) IsValid() bool {
	switch v {
	case ViewAnalyzer, ViewIdeas, ViewGenerator:
		return true
	}
	return false
}
