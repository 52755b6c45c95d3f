package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kgwater/vf-news/internal/model"
)

// WorldServiceInterface 是世界观处理器依赖的服务接口。
type WorldServiceInterface interface {
	// Get 返回当前世界观设定，文件缺失时返回缺省设定。
	Get() (model.WorldSetting, error)
	// Put 整体替换世界观设定。
	Put(ws model.WorldSetting) (model.WorldSetting, error)
}

// WorldHandler 是世界观设定的HTTP处理器。
type WorldHandler struct {
	service WorldServiceInterface
}

// NewWorldHandler 生成 WorldHandler。
func NewWorldHandler(service WorldServiceInterface) *WorldHandler {
	return &WorldHandler{service: service}
}

// worldResponse 是世界观设定响应。
type worldResponse struct {
	OK   bool               `json:"ok"`
	Data model.WorldSetting `json:"data"`
}

// GetWorldSetting 返回当前世界观设定。
// GET /api/worldsetting
func (h *WorldHandler) GetWorldSetting(w http.ResponseWriter, r *http.Request) {
	ws, err := h.service.Get()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, worldResponse{OK: true, Data: ws})
}

// PutWorldSetting 整体替换世界观设定。
// PUT /api/worldsetting
func (h *WorldHandler) PutWorldSetting(w http.ResponseWriter, r *http.Request) {
	var ws model.WorldSetting
	if err := json.NewDecoder(r.Body).Decode(&ws); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("请求体不是合法的JSON"))
		return
	}

	saved, err := h.service.Put(ws)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, worldResponse{OK: true, Data: saved})
}
