package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kgwater/vf-news/internal/draft"
	"github.com/kgwater/vf-news/internal/model"
)

// DraftServiceInterface 是草稿处理器依赖的服务接口。
type DraftServiceInterface interface {
	// Generate 调用外部模型生成一篇草稿并保存。
	Generate(ctx context.Context, input draft.GenerateInput) (*model.Draft, error)
	// List 返回全部草稿。
	List() ([]model.Draft, error)
	// Get 返回指定草稿。
	Get(id string) (*model.Draft, error)
	// Edit 对指定草稿做部分更新。
	Edit(id string, input draft.EditInput) (*model.Draft, error)
	// Delete 移除指定草稿。
	Delete(id string) error
	// Publish 将草稿转为已发布新闻。
	Publish(id string) (*model.NewsItem, error)
}

// DraftHandler 是草稿管理的HTTP处理器。
type DraftHandler struct {
	service DraftServiceInterface
}

// NewDraftHandler 生成 DraftHandler。
func NewDraftHandler(service DraftServiceInterface) *DraftHandler {
	return &DraftHandler{service: service}
}

// generateRequest 是生成草稿的请求体。
// apiKey 随请求传入，不落盘。world 仅作用于本次生成。
type generateRequest struct {
	APIKey      string              `json:"apiKey"`
	BaseURL     string              `json:"baseUrl"`
	Model       string              `json:"model"`
	Category    string              `json:"category"`
	TitleHint   string              `json:"titleHint"`
	Tone        string              `json:"tone"`
	Length      int                 `json:"length"`
	Temperature float64             `json:"temperature"`
	World       *model.WorldSetting `json:"world"`
}

// editDraftRequest 是草稿部分更新的请求体。nil 字段保持原值。
type editDraftRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// draftResponse 是单条草稿响应。
type draftResponse struct {
	OK    bool         `json:"ok"`
	Draft *model.Draft `json:"draft"`
}

// Generate 生成一篇草稿。
// POST /api/drafts/generate
func (h *DraftHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("请求体不是合法的JSON"))
		return
	}

	d, err := h.service.Generate(r.Context(), draft.GenerateInput{
		APIKey:        req.APIKey,
		BaseURL:       req.BaseURL,
		Model:         req.Model,
		Category:      req.Category,
		TitleHint:     req.TitleHint,
		Tone:          req.Tone,
		Length:        req.Length,
		Temperature:   req.Temperature,
		WorldOverride: req.World,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, draftResponse{OK: true, Draft: d})
}

// ListDrafts 返回全部草稿。
// GET /api/drafts
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.service.List()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK     bool          `json:"ok"`
		Drafts []model.Draft `json:"drafts"`
	}{OK: true, Drafts: drafts})
}

// GetDraft 返回单条草稿。
// GET /api/drafts/:id
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, draftResponse{OK: true, Draft: d})
}

// EditDraft 对指定草稿做部分更新。
// PUT /api/drafts/:id
func (h *DraftHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	var req editDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("请求体不是合法的JSON"))
		return
	}

	d, err := h.service.Edit(chi.URLParam(r, "id"), draft.EditInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, draftResponse{OK: true, Draft: d})
}

// DeleteDraft 移除指定草稿。
// DELETE /api/drafts/:id
func (h *DraftHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

// PublishDraft 将草稿发布为新闻。
// POST /api/drafts/:id/publish
func (h *DraftHandler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Publish(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newsItemResponse{OK: true, Item: item})
}
