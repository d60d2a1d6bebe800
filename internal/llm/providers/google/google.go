// internal/llm/providers/google/google.go
package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/schema"
)

const defaultModel = "gemini-2.5-flash"

func init() {
	llm.Register("google", func() llm.Provider {
		return &Provider{
			models: []string{
				"gemini-2.5-flash",
				"gemini-2.5-pro",
				"gemini-2.5-flash-lite",
			},
		}
	})
}

// Provider 基于 genai SDK 的 Gemini 提供者
type Provider struct {
	client       *genai.Client
	defaultModel string
	baseURL      string
	models       []string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey := config["api_key"]
	if apiKey == "" {
		return fmt.Errorf("google: %w", llm.ErrMissingAPIKey)
	}

	p.defaultModel = defaultModel
	if model := config["default_model"]; model != "" {
		p.defaultModel = model
	}
	p.baseURL = config["base_url"]

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return fmt.Errorf("创建 genai 客户端失败: %w", err)
	}
	p.client = client
	return nil
}

func (p *Provider) GetName() string {
	return "google gemini"
}

func (p *Provider) GetSupportedModels() []string {
	return p.models
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.client == nil {
		return nil, fmt.Errorf("google: 提供者未初始化")
	}

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), buildConfig(req))
	if err != nil {
		return nil, fmt.Errorf("Gemini 请求失败: %w", err)
	}

	result := &llm.CompletionResponse{
		Text:         resp.Text(),
		ModelName:    model,
		ProviderName: p.GetName(),
	}
	if resp.ModelVersion != "" {
		result.ModelName = resp.ModelVersion
	}
	if len(resp.Candidates) > 0 {
		result.FinishReason = strings.ToLower(string(resp.Candidates[0].FinishReason))
	}
	if usage := resp.UsageMetadata; usage != nil {
		result.PromptTokens = int(usage.PromptTokenCount)
		result.OutputTokens = int(usage.CandidatesTokenCount)
		result.TokensUsed = int(usage.TotalTokenCount)
	}

	return result, nil
}

// buildConfig 把通用请求参数映射为 GenerateContentConfig
func buildConfig(req llm.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.WantsJSON() {
		cfg.ResponseMIMEType = llm.MIMETypeJSON
		cfg.ResponseSchema = toGenaiSchema(req.ResponseSchema)
	}

	return cfg
}

var genaiTypes = map[schema.Type]genai.Type{
	schema.TypeObject:  genai.TypeObject,
	schema.TypeArray:   genai.TypeArray,
	schema.TypeString:  genai.TypeString,
	schema.TypeNumber:  genai.TypeNumber,
	schema.TypeInteger: genai.TypeInteger,
	schema.TypeBoolean: genai.TypeBoolean,
}

// toGenaiSchema 转换为 Gemini 的 schema，保留属性顺序
func toGenaiSchema(s *schema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, name := range s.PropertyNames() {
			out.Properties[name] = toGenaiSchema(s.Properties[name])
		}
		out.PropertyOrdering = s.PropertyNames()
	}
	return out
}
