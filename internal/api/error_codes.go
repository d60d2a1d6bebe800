// internal/api/error_codes.go
package api

// API错误代码常量
const (
	// 通用错误
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"
	ErrorConflict      = "CONFLICT"

	// 会话与页面
	ErrorSessionNotFound      = "SESSION_NOT_FOUND"
	ErrorSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	ErrorInvalidView          = "INVALID_VIEW"
	ErrorScriptNotReady       = "SCRIPT_NOT_READY"

	// LLM服务相关错误
	ErrorLLMServiceUnavailable = "LLM_SERVICE_UNAVAILABLE"
	ErrorLLMNotConfigured      = "LLM_NOT_CONFIGURED"
	ErrorLLMConfigInvalid      = "LLM_CONFIG_INVALID"
	ErrorAIResponseInvalid     = "AI_RESPONSE_INVALID"

	// 导出相关错误
	ErrorExportFormatInvalid = "EXPORT_FORMAT_INVALID"
	ErrorRenderFailed        = "RENDER_FAILED"
)
