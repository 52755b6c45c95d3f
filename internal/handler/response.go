// Package handler 提供HTTP处理器与路由。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kgwater/vf-news/internal/middleware"
	"github.com/kgwater/vf-news/internal/model"
)

// writeJSONResponse 写入成功响应。payload 自带 ok 字段。
func writeJSONResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// writeAPIErrorResponse 以统一错误格式写入错误响应。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError 将服务层返回的错误转换为相应的HTTP状态码。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError 以外的错误一律按内部错误处理
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus 由错误码映射HTTP状态码。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeNewsNotFound, model.ErrCodeDraftNotFound:
		return http.StatusNotFound
	case model.ErrCodePolicyViolation:
		return http.StatusUnprocessableEntity
	case model.ErrCodeGenerationFailed:
		return http.StatusBadGateway
	case model.ErrCodeGenerationUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeStorageWriteFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
