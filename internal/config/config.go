// internal/config/config.go
package config

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// 当前配置的单例实例
var (
	currentConfig *Config
	configMutex   sync.RWMutex
)

// Config 包含应用程序的所有配置，只来自环境变量，不落盘
type Config struct {
	// 基础配置
	Port      string `envconfig:"PORT" default:"8080" json:"port"`
	DebugMode bool   `envconfig:"DEBUG_MODE" default:"true" json:"debug_mode"`

	// LLM相关配置
	LLMProvider string `envconfig:"LLM_PROVIDER" default:"google" json:"llm_provider"`
	LLMModel    string `envconfig:"LLM_MODEL" json:"llm_model,omitempty"` // 为空时使用提供者默认模型
	LLMBaseURL  string `envconfig:"LLM_BASE_URL" json:"llm_base_url,omitempty"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" json:"-"`
	APIKey       string `envconfig:"API_KEY" json:"-"`
	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY" json:"-"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" json:"-"`
	LLMAPIKey    string `envconfig:"LLM_API_KEY" json:"-"` // 其它 OpenAI 兼容服务商

	// 日志
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" json:"log_level"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"console" json:"log_encoding"`
	LogFile     string `envconfig:"LOG_FILE" json:"log_file,omitempty"`

	// HTTP
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" json:"allowed_origins"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" json:"shutdown_timeout"`

	// 会话
	SessionIdleTTL       time.Duration `envconfig:"SESSION_IDLE_TTL" default:"2h" json:"session_idle_ttl"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"10m" json:"session_sweep_interval"`

	// 运行时通过设置接口更新的 LLM 配置，优先于环境变量
	LLMConfig map[string]string `ignored:"true" json:"-"`
}

// Load 从 .env 文件（可选）和环境变量加载配置
func Load() (*Config, error) {
	// 尝试加载.env文件（可选）
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("加载环境变量配置失败: %w", err)
	}
	return &cfg, nil
}

// ResolveAPIKey 返回指定提供者使用的密钥
// google 依次尝试 GEMINI_API_KEY、API_KEY、GOOGLE_API_KEY
func (c *Config) ResolveAPIKey(provider string) string {
	switch provider {
	case "google":
		return firstNonEmpty(c.GeminiAPIKey, c.APIKey, c.GoogleAPIKey)
	case "openai":
		return firstNonEmpty(c.OpenAIAPIKey, c.LLMAPIKey)
	default:
		return firstNonEmpty(c.LLMAPIKey, c.APIKey)
	}
}

// HasAPIKey 当前提供者是否配置了密钥
func (c *Config) HasAPIKey() bool {
	return c.LLMSettings()["api_key"] != ""
}

// LLMSettings 返回提供者注册表所需的配置
func (c *Config) LLMSettings() map[string]string {
	if c.LLMConfig != nil {
		return maps.Clone(c.LLMConfig)
	}

	settings := map[string]string{
		"api_key": c.ResolveAPIKey(c.LLMProvider),
	}
	if c.LLMModel != "" {
		settings["default_model"] = c.LLMModel
	}
	if c.LLMBaseURL != "" {
		settings["base_url"] = c.LLMBaseURL
	}
	return settings
}

// InitConfig 初始化配置管理器
func InitConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configMutex.Lock()
	currentConfig = cfg
	configMutex.Unlock()

	return GetCurrentConfig(), nil
}

// GetCurrentConfig 返回当前配置的副本
func GetCurrentConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		// 未初始化时直接从环境读取
		cfg, err := Load()
		if err != nil {
			return &Config{Port: "8080", LLMProvider: "google"}
		}
		return cfg
	}

	configCopy := *currentConfig
	configCopy.LLMConfig = maps.Clone(currentConfig.LLMConfig)
	configCopy.AllowedOrigins = append([]string(nil), currentConfig.AllowedOrigins...)
	return &configCopy
}

// PrepareLLMSettings 合并运行时提交的设置，不修改当前配置
// 未提供密钥时沿用环境变量中的密钥
func PrepareLLMSettings(provider string, settings map[string]string) (map[string]string, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		return nil, fmt.Errorf("配置系统未初始化")
	}

	merged := maps.Clone(settings)
	if merged == nil {
		merged = make(map[string]string)
	}
	if merged["api_key"] == "" {
		merged["api_key"] = currentConfig.ResolveAPIKey(provider)
	}
	return merged, nil
}

// UpdateLLMConfig 写入LLM配置，仅保存在内存中
// 调用方应先用合并后的设置切换提供者，成功后再提交
func UpdateLLMConfig(provider string, settings map[string]string) error {
	merged, err := PrepareLLMSettings(provider, settings)
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	if currentConfig == nil {
		return fmt.Errorf("配置系统未初始化")
	}
	currentConfig.LLMProvider = provider
	currentConfig.LLMConfig = merged
	if model := merged["default_model"]; model != "" {
		currentConfig.LLMModel = model
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
