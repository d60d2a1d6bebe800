// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Corphon/TubeGenius/internal/config"
	apperrors "github.com/Corphon/TubeGenius/internal/errors"
	"github.com/Corphon/TubeGenius/internal/llm"
	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/services"
	"github.com/Corphon/TubeGenius/internal/utils"
	"github.com/Corphon/TubeGenius/internal/views"
)

// Handler 处理API请求
type Handler struct {
	LLMService *services.LLMService     // 模型提供者
	Gateway    *services.GatewayService // AI 网关
	Sessions   *services.SessionService // 会话
	WebSocket  *WebSocketManager        // WebSocket 连接
	Response   *ResponseHelper          // 响应助手
	logger     *zap.Logger
}

// NewHandler 创建API处理器
func NewHandler(llmService *services.LLMService, gateway *services.GatewayService,
	sessions *services.SessionService, ws *WebSocketManager, logger *zap.Logger) *Handler {
	return &Handler{
		LLMService: llmService,
		Gateway:    gateway,
		Sessions:   sessions,
		WebSocket:  ws,
		Response:   NewResponseHelper(),
		logger:     utils.OrNop(logger),
	}
}

// AnalyzeRequest 分析请求
type AnalyzeRequest struct {
	Script string `json:"script" binding:"required"`
}

// TopicsRequest 选题请求
type TopicsRequest struct {
	Context string `json:"context" binding:"required"`
}

// InputRequest 更新页面输入，允许为空
type InputRequest struct {
	Script  *string `json:"script"`
	Context *string `json:"context"`
}

// ViewRequest 切换页面
type ViewRequest struct {
	View models.View `json:"view" binding:"required"`
}

// SelectRequest 选择选题
type SelectRequest struct {
	Index *int `json:"index" binding:"required"`
}

// OptionsResponse 前端下拉选项和默认值
type OptionsResponse struct {
	Tones     []string            `json:"tones"`
	Durations []string            `json:"durations"`
	Views     []models.View       `json:"views"`
	Defaults  models.ScriptConfig `json:"defaults"`
}

// SessionResponse 会话信息
type SessionResponse struct {
	ID string `json:"id"`
	views.ShellSnapshot
}

// submitter 支持同步和后台提交的页面控制器
type submitter interface {
	Submit(ctx context.Context) error
	Start(ctx context.Context) (<-chan struct{}, error)
}

// requestContext 网关调用不随 HTTP 请求取消
func requestContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// ------------------------------------------------
// 健康检查与选项

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	status := h.LLMService.GetProviderStatus()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"llm":      status,
		"sessions": h.Sessions.Count(),
	})
}

// GetOptions 返回语气、时长、页面选项
func (h *Handler) GetOptions(c *gin.Context) {
	h.Response.Success(c, OptionsResponse{
		Tones:     models.ToneOptions,
		Durations: models.DurationOptions,
		Views:     models.Views,
		Defaults:  models.DefaultScriptConfig(),
	})
}

// ------------------------------------------------
// 无状态网关接口

// Analyze 分析脚本
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式", err.Error())
		return
	}

	result, err := h.Gateway.Analyze(requestContext(c), req.Script)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, views.AnalysisResult{ScriptAnalysis: result, ScoreBand: result.ScoreBand()})
}

// SuggestTopics 推荐选题
func (h *Handler) SuggestTopics(c *gin.Context) {
	var req TopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式", err.Error())
		return
	}

	topics, err := h.Gateway.SuggestTopics(requestContext(c), req.Context)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, topics)
}

// GenerateScript 生成脚本，format=html 时附带渲染结果
func (h *Handler) GenerateScript(c *gin.Context) {
	var req models.ScriptConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式", err.Error())
		return
	}

	cfg, err := normalizeScriptConfig(req)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	content, err := h.Gateway.GenerateScript(requestContext(c), cfg)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}

	script := models.GeneratedScript{Config: cfg, Content: content}
	if strings.EqualFold(c.Query("format"), "html") {
		html, err := services.RenderMarkdown(content)
		if err != nil {
			h.Response.Error(c, http.StatusInternalServerError, ErrorRenderFailed, "渲染脚本失败", err.Error())
			return
		}
		script.HTML = html
	}
	h.Response.Success(c, script)
}

// normalizeScriptConfig 补全默认值并校验固定选项
func normalizeScriptConfig(req models.ScriptConfig) (models.ScriptConfig, error) {
	cfg := models.DefaultScriptConfig()
	cfg.Topic = req.Topic
	if req.Tone != "" {
		if !models.IsValidTone(req.Tone) {
			return cfg, apperrors.NewValidationError("不支持的语气: "+req.Tone, nil)
		}
		cfg.Tone = req.Tone
	}
	if req.Duration != "" {
		if !models.IsValidDuration(req.Duration) {
			return cfg, apperrors.NewValidationError("不支持的时长: "+req.Duration, nil)
		}
		cfg.Duration = req.Duration
	}
	if strings.TrimSpace(req.TargetAudience) != "" {
		cfg.TargetAudience = req.TargetAudience
	}
	return cfg, nil
}

// ------------------------------------------------
// 会话

// CreateSession 创建会话
func (h *Handler) CreateSession(c *gin.Context) {
	session := h.Sessions.Create()
	h.Response.Created(c, SessionResponse{ID: session.ID, ShellSnapshot: session.Shell.Snapshot()}, "会话创建成功")
}

// GetSession 获取会话的整体状态
func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.Response.Success(c, SessionResponse{ID: session.ID, ShellSnapshot: session.Shell.Snapshot()})
}

// DeleteSession 删除会话
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.Sessions.Delete(c.Param("id")); err != nil {
		h.sessionError(c, err)
		return
	}
	h.Response.Success(c, nil, "会话已删除")
}

// SetView 切换页面
func (h *Handler) SetView(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式", err.Error())
		return
	}
	if err := session.Shell.SetView(req.View); err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrorInvalidView, err.Error())
		return
	}
	h.Response.Success(c, SessionResponse{ID: session.ID, ShellSnapshot: session.Shell.Snapshot()})
}

func (h *Handler) session(c *gin.Context) (*services.Session, bool) {
	session, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return nil, false
	}
	return session, true
}

func (h *Handler) sessionError(c *gin.Context, err error) {
	h.Response.NotFound(c, "会话", err.Error())
}

// submit 默认在后台执行并返回 202，wait=true 时同步等待结果
func (h *Handler) submit(c *gin.Context, controller submitter, snapshot func() any) {
	if c.Query("wait") == "true" {
		if err := controller.Submit(requestContext(c)); err != nil {
			h.Response.FromError(c, err)
			return
		}
		h.Response.Success(c, snapshot())
		return
	}

	if _, err := controller.Start(c.Request.Context()); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Accepted(c, snapshot())
}

// ------------------------------------------------
// 脚本分析页

// GetAnalyzer 获取分析页状态
func (h *Handler) GetAnalyzer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.Response.Success(c, session.Shell.Analyzer().Snapshot())
}

// SetAnalyzerInput 更新待分析脚本
func (h *Handler) SetAnalyzerInput(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Script == nil {
		h.Response.BadRequest(c, "缺少 script 字段")
		return
	}
	analyzer := session.Shell.Analyzer()
	analyzer.SetInput(*req.Script)
	h.Response.Success(c, analyzer.Snapshot())
}

// SubmitAnalyzer 提交分析
func (h *Handler) SubmitAnalyzer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	analyzer := session.Shell.Analyzer()
	h.submit(c, analyzer, func() any { return analyzer.Snapshot() })
}

// DismissAnalyzerNotice 关闭失败提示
func (h *Handler) DismissAnalyzerNotice(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	analyzer := session.Shell.Analyzer()
	analyzer.DismissNotice()
	h.Response.Success(c, analyzer.Snapshot())
}

// ------------------------------------------------
// 选题推荐页

// GetIdeas 获取选题页状态
func (h *Handler) GetIdeas(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.Response.Success(c, session.Shell.Ideas().Snapshot())
}

// SetIdeasInput 更新领域输入
func (h *Handler) SetIdeasInput(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Context == nil {
		h.Response.BadRequest(c, "缺少 context 字段")
		return
	}
	ideas := session.Shell.Ideas()
	ideas.SetInput(*req.Context)
	h.Response.Success(c, ideas.Snapshot())
}

// SubmitIdeas 提交选题请求
func (h *Handler) SubmitIdeas(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	ideas := session.Shell.Ideas()
	h.submit(c, ideas, func() any { return ideas.Snapshot() })
}

// SelectIdea 选择选题并切换到脚本生成页
func (h *Handler) SelectIdea(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "缺少 index 字段", err.Error())
		return
	}
	if _, err := session.Shell.SelectTopic(*req.Index); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, SessionResponse{ID: session.ID, ShellSnapshot: session.Shell.Snapshot()})
}

// ------------------------------------------------
// 脚本生成页

// GetGenerator 获取生成页状态
func (h *Handler) GetGenerator(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	h.Response.Success(c, session.Shell.Generator().Snapshot())
}

// SetGeneratorConfig 更新生成参数
func (h *Handler) SetGeneratorConfig(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req models.ScriptConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式", err.Error())
		return
	}
	generator := session.Shell.Generator()
	if err := generator.SetConfig(req); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, generator.Snapshot())
}

// SubmitGenerator 提交脚本生成
func (h *Handler) SubmitGenerator(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	generator := session.Shell.Generator()
	h.submit(c, generator, func() any { return generator.Snapshot() })
}

// DownloadScript 下载已生成的脚本
func (h *Handler) DownloadScript(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	script, ready := session.Shell.Generator().Script()
	if !ready {
		h.Response.Error(c, http.StatusConflict, ErrorScriptNotReady, "脚本尚未生成")
		return
	}

	switch strings.ToLower(c.DefaultQuery("format", "markdown")) {
	case "markdown", "md":
		h.Response.FileResponse(c, script, "script.md", "text/markdown; charset=utf-8")
	case "html":
		html, err := services.RenderMarkdown(script)
		if err != nil {
			h.Response.Error(c, http.StatusInternalServerError, ErrorRenderFailed, "渲染脚本失败", err.Error())
			return
		}
		h.Response.FileResponse(c, html, "script.html", "text/html; charset=utf-8")
	default:
		h.Response.Error(c, http.StatusBadRequest, ErrorExportFormatInvalid, "不支持的格式: "+c.Query("format"))
	}
}

// ------------------------------------------------
// LLM 配置

// GetLLMStatus 获取LLM服务状态
func (h *Handler) GetLLMStatus(c *gin.Context) {
	cfg := config.GetCurrentConfig()
	h.Response.Success(c, gin.H{
		"status":    h.LLMService.GetProviderStatus(),
		"providers": llm.ListProviders(),
		"config": gin.H{
			"provider":    cfg.LLMProvider,
			"model":       cfg.LLMModel,
			"has_api_key": cfg.HasAPIKey(),
		},
	})
}

// GetLLMModels 获取指定LLM提供商支持的模型列表
func (h *Handler) GetLLMModels(c *gin.Context) {
	provider := c.Query("provider")
	if provider == "" {
		h.Response.BadRequest(c, "缺少提供商参数")
		return
	}
	if !slices.Contains(llm.ListProviders(), provider) {
		h.Response.BadRequest(c, "不支持的LLM提供商: "+provider)
		return
	}

	supported := llm.GetSupportedModelsForProvider(provider)
	h.Response.Success(c, gin.H{
		"provider": provider,
		"models":   supported,
		"count":    len(supported),
	})
}

// UpdateLLMConfig 更新LLM配置，只在内存中生效
func (h *Handler) UpdateLLMConfig(c *gin.Context) {
	var req struct {
		Provider string            `json:"provider" binding:"required"`
		Config   map[string]string `json:"config"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "无效的请求格式", err.Error())
		return
	}
	if !slices.Contains(llm.ListProviders(), req.Provider) {
		h.Response.Error(c, http.StatusBadRequest, ErrorLLMConfigInvalid, "不支持的LLM提供商: "+req.Provider)
		return
	}

	settings, err := config.PrepareLLMSettings(req.Provider, req.Config)
	if err != nil {
		h.Response.InternalError(c, "配置更新失败", err.Error())
		return
	}

	// 提供者初始化成功后才提交配置，失败时配置与运行中的提供者保持一致
	if err := h.LLMService.UpdateProvider(req.Provider, settings); err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrorLLMConfigInvalid, "LLM服务更新失败", err.Error())
		return
	}
	if err := config.UpdateLLMConfig(req.Provider, settings); err != nil {
		h.Response.InternalError(c, "配置更新失败", err.Error())
		return
	}

	h.Response.Success(c, h.LLMService.GetProviderStatus(), "LLM配置更新成功")
}
