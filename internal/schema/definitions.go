// internal/schema/definitions.go
package schema

import "github.com/Corphon/TubeGenius/internal/models"

// AnalysisSchema 脚本分析响应结构
var AnalysisSchema = &Schema{
	Name: "script_analysis",
	Type: TypeObject,
	Properties: map[string]*Schema{
		"score":             {Type: TypeNumber, Description: "Overall script quality score from 0 to 100"},
		"hookAnalysis":      {Type: TypeString, Description: "Analysis of the first 30 seconds"},
		"pacing":            {Type: TypeString, Description: "Comments on flow and speed"},
		"audienceRetention": {Type: TypeString, Description: "Predicted drop-off points or engagement peaks"},
		"keywords": {
			Type:        TypeArray,
			Items:       &Schema{Type: TypeString},
			Description: "Top 5 SEO keywords detected",
		},
		"improvements": {
			Type:        TypeArray,
			Items:       &Schema{Type: TypeString},
			Description: "3 actionable tips to improve the script",
		},
		"sentiment": {Type: TypeString, Enum: models.SentimentValues},
	},
	Order:    analysisFields,
	Required: analysisFields,
}

// TopicListSchema 选题推荐响应结构
var TopicListSchema = &Schema{
	Name: "topic_suggestions",
	Type: TypeArray,
	Items: &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"title":         {Type: TypeString, Description: "Clickbait but honest title"},
			"thumbnailIdea": {Type: TypeString, Description: "Visual description for the thumbnail"},
			"viralityScore": {Type: TypeNumber, Description: "Predicted viral potential 1-10"},
			"reasoning":     {Type: TypeString, Description: "Why this topic will work"},
		},
		Order:    topicFields,
		Required: topicFields,
	},
}

var analysisFields = []string{
	"score", "hookAnalysis", "pacing", "audienceRetention", "keywords", "improvements", "sentiment",
}

var topicFields = []string{"title", "thumbnailIdea", "viralityScore", "reasoning"}
