package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kgwater/vf-news/internal/model"
)

// ErrorResponseBody 是API错误响应的统一格式。
// ok 恒为 false，包含原因分类与处置建议。
type ErrorResponseBody struct {
	OK       bool   `json:"ok"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse 以统一错误格式写入HTTP错误响应。
// 全部API端点共用该格式。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		OK:       false,
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError 写入内部错误的统一响应。
// 细节只进日志，对调用方返回一般性信息。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "发生内部错误。",
		Category: "system",
		Action:   "请稍后重试。",
	})
}
