package model

import "fmt"

// APIError 表示统一错误格式。
// 包含展示给调用方的原因分类与处置建议。
type APIError struct {
	Code     string // 错误码
	Message  string // 错误信息
	Category string // 分类: validation, content, generation, system
	Action   string // 调用方处置建议
}

// Error 实现 error 接口。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 既定错误码
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeNewsNotFound          = "NEWS_NOT_FOUND"
	ErrCodeDraftNotFound         = "DRAFT_NOT_FOUND"
	ErrCodePolicyViolation       = "CONTENT_POLICY_VIOLATION"
	ErrCodeGenerationFailed      = "GENERATION_FAILED"
	ErrCodeGenerationUnavailable = "GENERATION_UNAVAILABLE"
	ErrCodeStorageWriteFailed    = "STORAGE_WRITE_FAILED"
)

// NewValidationError 生成必填字段缺失等校验错误。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("请求校验失败: %s", reason),
		Category: "validation",
		Action:   "请检查请求字段后重试。",
	}
}

// NewNewsNotFoundError 生成新闻未找到错误。
func NewNewsNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeNewsNotFound,
		Message:  fmt.Sprintf("指定的新闻不存在: %s", id),
		Category: "validation",
		Action:   "请确认新闻ID。文档来源的条目需先导入集合后才能单独访问。",
	}
}

// NewDraftNotFoundError 生成草稿未找到错误。
func NewDraftNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeDraftNotFound,
		Message:  fmt.Sprintf("指定的草稿不存在: %s", id),
		Category: "validation",
		Action:   "请确认草稿ID，草稿发布成功后会被移除。",
	}
}

// NewPolicyViolationError 生成内容合规错误。reason 为命中的规则说明。
func NewPolicyViolationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodePolicyViolation,
		Message:  fmt.Sprintf("内容违反合规策略: %s", reason),
		Category: "content",
		Action:   "请移除现实实体与敏感内容后重试，本次操作未写入任何数据。",
	}
}

// NewGenerationError 生成外部生成能力失败错误。
func NewGenerationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeGenerationFailed,
		Message:  fmt.Sprintf("AI 生成失败: %s", reason),
		Category: "generation",
		Action:   "请检查 API Key 与接入点配置，稍后重试。",
	}
}

// NewGenerationUnavailableError 生成未配置生成能力的错误。
func NewGenerationUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeGenerationUnavailable,
		Message:  "当前实例未配置 AI 生成能力。",
		Category: "generation",
		Action:   "请改用手动创建接口，或联系管理员开启生成功能。",
	}
}

// NewStorageWriteError 生成存储写入失败错误。
func NewStorageWriteError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeStorageWriteFailed,
		Message:  fmt.Sprintf("存储写入失败: %s", name),
		Category: "system",
		Action:   "本次操作未完成，请稍后重试。",
	}
}
