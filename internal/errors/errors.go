// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType 错误分类，决定 HTTP 状态码和对外错误码
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error" // 输入为空或选项非法
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeProcessing ErrorType = "processing_error" // 本地处理失败，如渲染
	ErrorTypeConflict   ErrorType = "conflict"         // 页面正在加载

	ErrorTypeTransport ErrorType = "transport_error" // 远程调用本身失败（网络、鉴权、配额）
	ErrorTypeDecode    ErrorType = "decode_error"    // 返回内容无法解析或缺少必填字段
)

var errorCodes = map[ErrorType]string{
	ErrorTypeValidation: "VALIDATION_ERROR",
	ErrorTypeNotFound:   "NOT_FOUND",
	ErrorTypeProcessing: "PROCESSING_ERROR",
	ErrorTypeConflict:   "CONFLICT",
	ErrorTypeTransport:  "LLM_SERVICE_UNAVAILABLE",
	ErrorTypeDecode:     "AI_RESPONSE_INVALID",
}

// AppError 带分类的应用错误，Message 面向用户，Err 保留底层原因
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(errType ErrorType, message string, cause error) *AppError {
	code, ok := errorCodes[errType]
	if !ok {
		code = "UNKNOWN_ERROR"
	}
	return &AppError{Type: errType, Code: code, Message: message, Err: cause}
}

func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, message, cause)
}

func NewNotFoundError(message string, cause error) *AppError {
	return newError(ErrorTypeNotFound, message, cause)
}

func NewProcessingError(message string, cause error) *AppError {
	return newError(ErrorTypeProcessing, message, cause)
}

func NewConflictError(message string, cause error) *AppError {
	return newError(ErrorTypeConflict, message, cause)
}

// NewTransportError 远程模型调用失败
func NewTransportError(message string, cause error) *AppError {
	return newError(ErrorTypeTransport, message, cause)
}

// NewDecodeError 模型返回内容不符合约定结构
func NewDecodeError(message string, cause error) *AppError {
	return newError(ErrorTypeDecode, message, cause)
}

// TypeOf 返回错误链中第一个 AppError 的类型，非 AppError 返回空字符串
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

func IsValidationError(err error) bool { return TypeOf(err) == ErrorTypeValidation }
func IsNotFoundError(err error) bool   { return TypeOf(err) == ErrorTypeNotFound }
func IsConflictError(err error) bool   { return TypeOf(err) == ErrorTypeConflict }
func IsTransportError(err error) bool  { return TypeOf(err) == ErrorTypeTransport }
func IsDecodeError(err error) bool     { return TypeOf(err) == ErrorTypeDecode }
