// internal/services/llm_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Corphon/TubeGenius/internal/config"
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/utils"
)

var ErrLLMNotReady = errors.New("llm service not ready")

var providerDefaultModels = map[string]string{
	"google":       "gemini-2.5-flash",
	"openai":       "gpt-4.1-mini",
	"openrouter":   "google/gemini-2.5-flash",
	"githubmodels": "gpt-4o-mini",
	"grok":         "grok-3-mini",
	"qwen":         "qwen-plus",
	"glm":          "glm-4.5-air",
}

// LLMService 持有当前的模型提供者，提供统一的调用入口
type LLMService struct {
	providerMutex      sync.RWMutex
	provider           llm.Provider
	providerName       string
	isReady            bool
	readyState         string
	activeDefaultModel string
	logger             *zap.Logger
}

// ProviderStatus 提供者状态
type ProviderStatus struct {
	Ready        bool   `json:"ready"`
	State        string `json:"state"`
	Provider     string `json:"provider"`
	DisplayName  string `json:"display_name,omitempty"`
	DefaultModel string `json:"default_model,omitempty"`
}

// NewLLMService 根据配置创建服务
// 缺少密钥或初始化失败时返回待机状态的服务而不是错误
func NewLLMService(cfg *config.Config, logger *zap.Logger) *LLMService {
	service := createBaseLLMService(logger)
	if cfg == nil {
		service.readyState = "Failed to retrieve configuration"
		return service
	}

	service.providerName = cfg.LLMProvider
	settings := cfg.LLMSettings()
	if cfg.LLMProvider == "" || settings["api_key"] == "" {
		service.readyState = "API key not configured"
		service.logger.Warn("⚠️ 未配置API密钥，AI服务以待机模式启动", zap.String("provider", cfg.LLMProvider))
		return service
	}

	provider, err := llm.GetProvider(cfg.LLMProvider, settings)
	if err != nil {
		service.readyState = fmt.Sprintf("Initialization failed: %v", err)
		service.logger.Warn("⚠️ AI提供者初始化失败", zap.String("provider", cfg.LLMProvider), zap.Error(err))
		return service
	}

	service.setProvider(cfg.LLMProvider, provider, settings)
	return service
}

// NewLLMServiceWithProvider 使用已初始化的提供者创建服务
func NewLLMServiceWithProvider(name string, provider llm.Provider, logger *zap.Logger) *LLMService {
	service := createBaseLLMService(logger)
	service.setProvider(name, provider, nil)
	return service
}

// NewEmptyLLMService 创建一个空的LLM服务实例作为后备方案
func NewEmptyLLMService(logger *zap.Logger) *LLMService {
	service := createBaseLLMService(logger)
	service.providerName = "empty"
	service.readyState = "Standby Service Mode – Please configure the API key in settings"
	return service
}

func createBaseLLMService(logger *zap.Logger) *LLMService {
	return &LLMService{
		readyState: "Uninitialized",
		logger:     utils.OrNop(logger),
	}
}

func (s *LLMService) setProvider(name string, provider llm.Provider, settings map[string]string) {
	s.provider = provider
	s.providerName = name
	s.activeDefaultModel = extractDefaultModel(name, settings)
	s.isReady = provider != nil
	if s.isReady {
		s.readyState = "Ready"
	}
}

// IsReady 返回服务是否已就绪
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.provider != nil && s.isReady
}

// GetReadyState 返回服务就绪状态描述
func (s *LLMService) GetReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.readyState
}

// GetProviderStatus 返回服务是否就绪以及可读描述
func (s *LLMService) GetProviderStatus() ProviderStatus {
	if s == nil {
		return ProviderStatus{State: "LLM服务实例未初始化"}
	}

	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	status := ProviderStatus{
		Ready:        s.provider != nil && s.isReady,
		State:        s.readyState,
		Provider:     s.providerName,
		DefaultModel: s.activeDefaultModel,
	}
	if s.provider != nil {
		status.DisplayName = s.provider.GetName()
	}
	return status
}

// GetSupportedModels 当前提供者支持的模型
func (s *LLMService) GetSupportedModels() []string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	if s.provider == nil {
		return []string{}
	}
	return s.provider.GetSupportedModels()
}

// UpdateProvider 更新LLM服务的提供商
// 失败时保留原有提供者，只更新状态描述
func (s *LLMService) UpdateProvider(providerName string, settings map[string]string) error {
	provider, err := llm.GetProvider(providerName, settings)
	if err != nil {
		s.providerMutex.Lock()
		s.readyState = fmt.Sprintf("Configuration failed: %v", err)
		s.providerMutex.Unlock()
		return err
	}

	s.providerMutex.Lock()
	s.setProvider(providerName, provider, settings)
	s.providerMutex.Unlock()

	s.logger.Info("🔄 AI提供者已切换", zap.String("provider", providerName))
	return nil
}

// Complete 通过当前提供者执行一次请求，不重试
func (s *LLMService) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.providerMutex.RLock()
	provider := s.provider
	ready := s.isReady
	defaultModel := s.activeDefaultModel
	s.providerMutex.RUnlock()

	if provider == nil || !ready {
		return nil, ErrLLMNotReady
	}

	if req.Model == "" {
		req.Model = defaultModel
	}

	resp, err := provider.CompleteText(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("提供者返回了空响应")
	}
	return resp, nil
}

// extractDefaultModel 配置中的模型优先，否则使用提供者的默认模型
func extractDefaultModel(providerName string, settings map[string]string) string {
	if model := settings["default_model"]; model != "" {
		return model
	}
	return providerDefaultModels[providerName]
}
