// internal/llm/providers/openai/openai.go
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/schema"
)

// envelopeField 数组结构外包的字段名（json_schema 顶层必须是对象）
const envelopeField = "items"

func init() {
	llm.Register("openai", func() llm.Provider {
		return New(Preset{
			Name:              "openai",
			DisplayName:       "OpenAI",
			DefaultModel:      "gpt-4.1-mini",
			Models:            []string{"gpt-4.1-mini", "gpt-4.1", "gpt-4o-mini", "gpt-4o"},
			StructuredOutputs: true,
		})
	})
}

// Preset 描述一个 OpenAI 兼容的服务商
type Preset struct {
	Name         string
	DisplayName  string
	BaseURL      string // 为空时使用 SDK 默认地址
	DefaultModel string
	Models       []string
	Headers      map[string]string

	// StructuredOutputs 为 true 时使用 json_schema 严格模式，
	// 否则使用 json_object 并把 schema 写入系统提示
	StructuredOutputs bool
}

// Provider OpenAI 兼容提供者
type Provider struct {
	preset       Preset
	client       sdk.Client
	defaultModel string
	ready        bool
}

// New 根据预设创建提供者，需调用 Initialize 后才能使用
func New(preset Preset) *Provider {
	return &Provider{preset: preset}
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey := config["api_key"]
	if apiKey == "" {
		return fmt.Errorf("%s: %w", p.preset.Name, llm.ErrMissingAPIKey)
	}

	p.defaultModel = p.preset.DefaultModel
	if model := config["default_model"]; model != "" {
		p.defaultModel = model
	}

	baseURL := p.preset.BaseURL
	if custom := config["base_url"]; custom != "" {
		baseURL = custom
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	for key, value := range p.preset.Headers {
		opts = append(opts, option.WithHeader(key, value))
	}

	p.client = sdk.NewClient(opts...)
	p.ready = true
	return nil
}

func (p *Provider) GetName() string {
	return p.preset.DisplayName
}

func (p *Provider) GetSupportedModels() []string {
	return p.preset.Models
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if !p.ready {
		return nil, fmt.Errorf("%s: 提供者未初始化", p.preset.Name)
	}

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	params, wrapped, err := p.buildParams(model, req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s 请求失败: %w", p.preset.DisplayName, err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(p.preset.Name + ": empty choices")
	}

	text := resp.Choices[0].Message.Content
	if wrapped {
		text = unwrapEnvelope(text)
	}

	result := &llm.CompletionResponse{
		Text:         text,
		FinishReason: string(resp.Choices[0].FinishReason),
		TokensUsed:   int(resp.Usage.TotalTokens),
		PromptTokens: int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		ModelName:    model,
		ProviderName: p.GetName(),
	}
	if resp.Model != "" {
		result.ModelName = resp.Model
	}
	return result, nil
}

// buildParams 构建请求参数，第二个返回值表示数组结构是否被外包
func (p *Provider) buildParams(model string, req llm.CompletionRequest) (sdk.ChatCompletionNewParams, bool, error) {
	params := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(model),
	}
	if req.Temperature > 0 {
		params.Temperature = sdk.Float(float64(req.Temperature))
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(req.MaxTokens))
	}

	systemPrompt := req.SystemPrompt
	wrapped := false

	if req.WantsJSON() {
		responseSchema := req.ResponseSchema
		if responseSchema.IsArray() {
			responseSchema = wrapArray(responseSchema)
			wrapped = true
		}

		if p.preset.StructuredOutputs && responseSchema != nil {
			params.ResponseFormat = sdk.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &sdk.ResponseFormatJSONSchemaParam{
					JSONSchema: sdk.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   schemaName(responseSchema),
						Schema: responseSchema.JSONSchema(),
						Strict: sdk.Bool(true),
					},
				},
			}
		} else {
			params.ResponseFormat = sdk.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &sdk.ResponseFormatJSONObjectParam{},
			}
			instruction, err := schemaInstruction(responseSchema)
			if err != nil {
				return params, false, err
			}
			systemPrompt = joinPrompt(systemPrompt, instruction)
		}
	}

	if systemPrompt != "" {
		params.Messages = append(params.Messages, sdk.SystemMessage(systemPrompt))
	}
	params.Messages = append(params.Messages, sdk.UserMessage(req.Prompt))

	return params, wrapped, nil
}

// wrapArray 把顶层数组包装为 {items: [...]}
func wrapArray(s *schema.Schema) *schema.Schema {
	return &schema.Schema{
		Name:       s.Name,
		Type:       schema.TypeObject,
		Properties: map[string]*schema.Schema{envelopeField: s},
		Order:      []string{envelopeField},
		Required:   []string{envelopeField},
	}
}

// unwrapEnvelope 取出 items 数组，不符合外包结构时原样返回
func unwrapEnvelope(text string) string {
	items := gjson.Get(text, envelopeField)
	if items.IsArray() {
		return items.Raw
	}
	return text
}

func schemaName(s *schema.Schema) string {
	if s.Name != "" {
		return s.Name
	}
	return "response"
}

// schemaInstruction json_object 模式下告知模型输出结构
func schemaInstruction(s *schema.Schema) (string, error) {
	if s == nil {
		return "Respond with a single JSON object.", nil
	}
	data, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return "", fmt.Errorf("序列化响应结构失败: %w", err)
	}
	return "Respond with a single JSON object that matches this JSON Schema exactly:\n" + string(data), nil
}

func joinPrompt(parts ...string) string {
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += part
	}
	return out
}
