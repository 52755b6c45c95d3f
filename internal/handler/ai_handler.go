package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kgwater/vf-news/internal/model"
)

// KeyTesterInterface 是 API Key 校验处理器依赖的接口。
type KeyTesterInterface interface {
	// TestKey 用模型列表接口轻量验证 API Key。
	TestKey(ctx context.Context, apiKey, baseURL string) error
}

// AIHandler 是AI辅助接口的HTTP处理器。
// tester 为 nil 表示当前实例未配置生成能力。
type AIHandler struct {
	tester KeyTesterInterface
}

// NewAIHandler 生成 AIHandler。
func NewAIHandler(tester KeyTesterInterface) *AIHandler {
	return &AIHandler{tester: tester}
}

// testKeyRequest 是 API Key 校验的请求体。
type testKeyRequest struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

// TestKey 校验 API Key 的有效性。
// POST /api/ai/test
func (h *AIHandler) TestKey(w http.ResponseWriter, r *http.Request) {
	if h.tester == nil {
		handleServiceError(w, model.NewGenerationUnavailableError())
		return
	}

	var req testKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("请求体不是合法的JSON"))
		return
	}

	if err := h.tester.TestKey(r.Context(), req.APIKey, req.BaseURL); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}
