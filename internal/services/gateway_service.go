// internal/services/gateway_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/schema"
	"github.com/Corphon/TubeGenius/internal/utils"
)

// 网关操作名，用于指标和日志
const (
	OperationAnalyze        = "analyze"
	OperationSuggestTopics  = "suggest_topics"
	OperationGenerateScript = "generate_script"
)

// GatewayService AI 网关：每个操作恰好一次请求，不重试、不流式
type GatewayService struct {
	llm    *LLMService
	logger *zap.Logger
}

// NewGatewayService 创建网关服务
func NewGatewayService(llmService *LLMService, logger *zap.Logger) *GatewayService {
	return &GatewayService{
		llm:    llmService,
		logger: utils.OrNop(logger),
	}
}

// Analyze 分析已有脚本
func (g *GatewayService) Analyze(ctx context.Context, scriptText string) (models.ScriptAnalysis, error) {
	if strings.TrimSpace(scriptText) == "" {
		return models.ScriptAnalysis{}, apperrors.NewValidationError("脚本内容不能为空", nil)
	}

	start := time.Now()
	resp, err := g.complete(ctx, OperationAnalyze, llm.CompletionRequest{
		Prompt:           BuildAnalyzePrompt(scriptText),
		ResponseMIMEType: llm.MIMETypeJSON,
		ResponseSchema:   schema.AnalysisSchema,
	})
	if err != nil {
		return models.ScriptAnalysis{}, err
	}

	result, err := schema.DecodeAnalysis(resp.Text)
	if err != nil {
		g.fail(OperationAnalyze, utils.OutcomeDecodeError, start, resp.TokensUsed, err)
		return models.ScriptAnalysis{}, err
	}

	utils.RecordGatewayRequest(OperationAnalyze, utils.OutcomeOK, time.Since(start), resp.TokensUsed)
	return result, nil
}

// SuggestTopics 根据领域或上下文推荐选题
// 返回内容无法解析时降级为空列表；远程调用失败仍返回 TransportError
func (g *GatewayService) SuggestTopics(ctx context.Context, nicheOrContext string) ([]models.TopicSuggestion, error) {
	if strings.TrimSpace(nicheOrContext) == "" {
		return nil, apperrors.NewValidationError("主题上下文不能为空", nil)
	}

	start := time.Now()
	resp, err := g.complete(ctx, OperationSuggestTopics, llm.CompletionRequest{
		Prompt:           BuildTopicsPrompt(nicheOrContext),
		ResponseMIMEType: llm.MIMETypeJSON,
		ResponseSchema:   schema.TopicListSchema,
	})
	if err != nil {
		return nil, err
	}

	topics, dropped, err := schema.DecodeTopics(resp.Text)
	if err != nil {
		g.fail(OperationSuggestTopics, utils.OutcomeDegraded, start, resp.TokensUsed, err)
		return []models.TopicSuggestion{}, nil
	}
	if dropped > 0 {
		utils.RecordDroppedSuggestions(dropped)
		g.logger.Warn("⚠️ 部分选题未通过校验已丢弃",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(topics)))
	}

	utils.RecordGatewayRequest(OperationSuggestTopics, utils.OutcomeOK, time.Since(start), resp.TokensUsed)
	return topics, nil
}

// GenerateScript 生成完整脚本，返回未经解析的 Markdown 文本
// 语气和时长由调用方保证取自固定选项，这里不做校验
func (g *GatewayService) GenerateScript(ctx context.Context, cfg models.ScriptConfig) (string, error) {
	if strings.TrimSpace(cfg.Topic) == "" {
		return "", apperrors.NewValidationError("主题不能为空", nil)
	}

	start := time.Now()
	resp, err := g.complete(ctx, OperationGenerateScript, llm.CompletionRequest{
		Prompt: BuildScriptPrompt(cfg),
	})
	if err != nil {
		return "", err
	}

	utils.RecordGatewayRequest(OperationGenerateScript, utils.OutcomeOK, time.Since(start), resp.TokensUsed)
	return resp.Text, nil
}

// complete 执行请求，失败时统一转换为 TransportError
func (g *GatewayService) complete(ctx context.Context, operation string, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	start := time.Now()
	if g.llm == nil {
		err := apperrors.NewTransportError("AI服务未初始化", ErrLLMNotReady)
		g.fail(operation, utils.OutcomeTransportError, start, 0, err)
		return nil, err
	}

	resp, err := g.llm.Complete(ctx, req)
	if err != nil {
		message := "调用AI服务失败"
		if errors.Is(err, ErrLLMNotReady) {
			message = "AI服务未就绪，请先配置API密钥"
		}
		transportErr := apperrors.NewTransportError(message, err)
		g.fail(operation, utils.OutcomeTransportError, start, 0, transportErr)
		return nil, transportErr
	}
	return resp, nil
}

// fail 记录失败指标并输出一条诊断日志
func (g *GatewayService) fail(operation, outcome string, start time.Time, tokens int, err error) {
	elapsed := time.Since(start)
	utils.RecordGatewayRequest(operation, outcome, elapsed, tokens)
	g.logger.Warn("⚠️ AI网关请求失败",
		zap.String("operation", operation),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))
}
