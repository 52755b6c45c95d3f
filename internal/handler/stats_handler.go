package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kgwater/vf-news/internal/news"
)

// StatsServiceInterface 是统计处理器依赖的服务接口。
type StatsServiceInterface interface {
	// Overview 返回总体统计。
	Overview() news.Overview
	// CategoryStats 返回按标签聚合的分类统计。
	CategoryStats() []news.CategoryStat
	// CategoryDetail 返回单个分类的详细统计。
	CategoryDetail(tag string) news.CategoryDetail
}

// StatsHandler 是统计查询的HTTP处理器。
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler 生成 StatsHandler。
func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// GetOverview 返回总体统计。
// GET /api/stats
func (h *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, struct {
		OK   bool          `json:"ok"`
		Data news.Overview `json:"data"`
	}{OK: true, Data: h.service.Overview()})
}

// GetCategoryStats 返回分类统计。
// GET /api/stats/categories
func (h *StatsHandler) GetCategoryStats(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, struct {
		OK   bool                `json:"ok"`
		Data []news.CategoryStat `json:"data"`
	}{OK: true, Data: h.service.CategoryStats()})
}

// GetCategoryDetail 返回单个分类的详细统计。
// GET /api/stats/categories/:tag
func (h *StatsHandler) GetCategoryDetail(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	writeJSONResponse(w, http.StatusOK, struct {
		OK   bool                `json:"ok"`
		Data news.CategoryDetail `json:"data"`
	}{OK: true, Data: h.service.CategoryDetail(tag)})
}
