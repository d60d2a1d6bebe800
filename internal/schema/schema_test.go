package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisSchemaDeclaresAllFields(t *testing.T) {
	assert.Equal(t, TypeObject, AnalysisSchema.Type)
	assert.ElementsMatch(t, AnalysisSchema.Required, AnalysisSchema.PropertyNames())
	assert.Equal(t, []string{"Positive", "Neutral", "Negative"}, AnalysisSchema.Properties["sentiment"].Enum)
	assert.Equal(t, "score", AnalysisSchema.PropertyNames()[0])
}

func TestTopicListSchemaIsArray(t *testing.T) {
	assert.True(t, TopicListSchema.IsArray())
	require.NotNil(t, TopicListSchema.Items)
	assert.Equal(t, []string{"title", "thumbnailIdea", "viralityScore", "reasoning"}, TopicListSchema.Items.Required)
}

func TestJSONSchemaStrictObject(t *testing.T) {
	out := AnalysisSchema.JSONSchema()

	assert.Equal(t, "object", out["type"])
	assert.Equal(t, false, out["additionalProperties"])

	props, ok := out["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 7)

	keywords, ok := props["keywords"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", keywords["type"])
	assert.Equal(t, map[string]any{"type": "string"}, keywords["items"])

	// 修改输出不影响原始定义
	out["required"].([]string)[0] = "changed"
	assert.Equal(t, "score", AnalysisSchema.Required[0])
}

func TestJSONSchemaNil(t *testing.T) {
	var s *Schema
	assert.Nil(t, s.JSONSchema())
	assert.False(t, s.IsArray())
}
