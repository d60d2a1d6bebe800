// internal/schema/decode.go
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/models"
)

var validate = validator.New()

// 指针字段用于区分“缺失”与“零值”
type analysisWire struct {
	Score             *float64 `json:"score" validate:"required,gte=0,lte=100"`
	HookAnalysis      *string  `json:"hookAnalysis" validate:"required"`
	Pacing            *string  `json:"pacing" validate:"required"`
	AudienceRetention *string  `json:"audienceRetention" validate:"required"`
	Keywords          []string `json:"keywords" validate:"required"`
	Improvements      []string `json:"improvements" validate:"required"`
	Sentiment         *string  `json:"sentiment" validate:"required,oneof=Positive Neutral Negative"`
}

type topicWire struct {
	Title         string   `json:"title" validate:"required"`
	ThumbnailIdea *string  `json:"thumbnailIdea" validate:"required"`
	ViralityScore *float64 `json:"viralityScore" validate:"required"`
	Reasoning     *string  `json:"reasoning" validate:"required"`
}

// DecodeAnalysis 解析模型返回的分析结果
// 任何缺失或非法字段都返回 DecodeError，不会返回部分填充的结果
func DecodeAnalysis(raw string) (models.ScriptAnalysis, error) {
	text := CleanJSON(raw)
	if text == "" || !gjson.Valid(text) {
		return models.ScriptAnalysis{}, apperrors.NewDecodeError("分析结果不是合法的JSON", nil)
	}
	if !gjson.Parse(text).IsObject() {
		return models.ScriptAnalysis{}, apperrors.NewDecodeError("分析结果应为JSON对象", nil)
	}

	var wire analysisWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return models.ScriptAnalysis{}, apperrors.NewDecodeError("解析分析结果失败", err)
	}
	if err := validate.Struct(&wire); err != nil {
		return models.ScriptAnalysis{}, apperrors.NewDecodeError("分析结果字段不完整", err)
	}

	return models.ScriptAnalysis{
		Score:             int(math.Round(*wire.Score)),
		HookAnalysis:      *wire.HookAnalysis,
		Pacing:            *wire.Pacing,
		AudienceRetention: *wire.AudienceRetention,
		Keywords:          wire.Keywords,
		Improvements:      wire.Improvements,
		Sentiment:         models.Sentiment(*wire.Sentiment),
	}, nil
}

// DecodeTopics 解析选题列表
// 顶层必须是数组；不合格的元素被丢弃，第二个返回值为丢弃数量
func DecodeTopics(raw string) ([]models.TopicSuggestion, int, error) {
	text := CleanJSON(raw)
	if text == "" || !gjson.Valid(text) {
		return nil, 0, apperrors.NewDecodeError("选题结果不是合法的JSON", nil)
	}

	result := gjson.Parse(text)
	if !result.IsArray() {
		return nil, 0, apperrors.NewDecodeError("选题结果应为JSON数组", nil)
	}

	elements := result.Array()
	topics := make([]models.TopicSuggestion, 0, len(elements))
	dropped := 0
	for _, elem := range elements {
		topic, err := decodeTopic(elem)
		if err != nil {
			dropped++
			continue
		}
		topics = append(topics, topic)
	}

	return topics, dropped, nil
}

func decodeTopic(elem gjson.Result) (models.TopicSuggestion, error) {
	if !elem.IsObject() {
		return models.TopicSuggestion{}, fmt.Errorf("元素类型错误: %s", elem.Type)
	}

	var wire topicWire
	if err := json.Unmarshal([]byte(elem.Raw), &wire); err != nil {
		return models.TopicSuggestion{}, err
	}
	if err := validate.Struct(&wire); err != nil {
		return models.TopicSuggestion{}, err
	}

	return models.TopicSuggestion{
		Title:         wire.Title,
		ThumbnailIdea: *wire.ThumbnailIdea,
		ViralityScore: *wire.ViralityScore,
		Reasoning:     *wire.Reasoning,
	}, nil
}

// CleanJSON 去掉代码块标记、零宽字符以及JSON前后的多余文字
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)

	// ```json ... ``` 包裹
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.IndexAny(s, "[{")
	if start == -1 {
		return strings.TrimSpace(s)
	}
	closing := byte('}')
	if s[start] == '[' {
		closing = ']'
	}
	end := strings.LastIndexByte(s, closing)
	if end < start {
		return strings.TrimSpace(s[start:])
	}

	return s[start : end+1]
}
