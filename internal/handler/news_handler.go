package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/news"
)

// NewsServiceInterface 是新闻处理器依赖的服务接口。
type NewsServiceInterface interface {
	// List 返回过滤、排序、分页后的当前页与过滤后总数。
	List(opts news.RankOptions) ([]model.NewsItem, int)
	// Tags 返回合并视图的标签统计。
	Tags() []model.TagCount
	// Get 返回集合存储中的指定条目。
	Get(id string) (*model.NewsItem, error)
	// Create 手动创建一条新闻。
	Create(input news.CreateInput) (*model.NewsItem, error)
	// Update 对指定条目做部分更新。
	Update(id string, input news.UpdateInput) (*model.NewsItem, error)
	// Delete 移除指定条目，返回移除条数。
	Delete(id string) (int, error)
	// AddView 浏览数加1。
	AddView(id string) (int, error)
	// AddLike 调整点赞数。op 为 dec 时减1，否则加1。
	AddLike(id, op string) (int, error)
	// AddComment 评论数加1。
	AddComment(id string) (int, error)
	// Import 将根分区文档导入集合存储。
	Import() ([]model.NewsItem, error)
}

// NewsHandler 是新闻管理的HTTP处理器。
type NewsHandler struct {
	service NewsServiceInterface
}

// NewNewsHandler 生成 NewsHandler。
func NewNewsHandler(service NewsServiceInterface) *NewsHandler {
	return &NewsHandler{service: service}
}

// --- 响应类型 ---

// newsListResponse 是新闻列表响应。
type newsListResponse struct {
	OK       bool             `json:"ok"`
	Items    []model.NewsItem `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// newsItemResponse 是单条新闻响应。
type newsItemResponse struct {
	OK   bool            `json:"ok"`
	Item *model.NewsItem `json:"item"`
}

// createNewsRequest 是手动创建新闻的请求体。
type createNewsRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Summary  string   `json:"summary"`
	Image    string   `json:"image"`
	ImageAlt string   `json:"imageAlt"`
	Author   string   `json:"author"`
}

// updateNewsRequest 是部分更新的请求体。nil 字段保持原值。
type updateNewsRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Tags     []string `json:"tags"`
	Summary  *string  `json:"summary"`
	Image    *string  `json:"image"`
	ImageAlt *string  `json:"imageAlt"`
	Author   *string  `json:"author"`
}

// likeRequest 是点赞操作的请求体。op 省略时为 inc。
type likeRequest struct {
	Op string `json:"op"`
}

// ListNews 返回新闻列表。
// GET /api/news?tag=xxx&sort=latest|hot|composite&page=1&pageSize=10
// category 是 tag 的旧版别名：tag 优先，category 为 all 时忽略。
func (h *NewsHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := parseIntOrDefault(q.Get("page"), 1)
	pageSize := parseIntOrDefault(q.Get("pageSize"), news.DefaultPageSize)

	tag := q.Get("tag")
	if tag == "" {
		if category := q.Get("category"); category != "" && category != "all" {
			tag = category
		}
	}

	opts := news.RankOptions{
		Tag:      tag,
		Sort:     model.SortOrder(q.Get("sort")),
		Page:     page,
		PageSize: pageSize,
	}

	items, total := h.service.List(opts)

	// 响应回显实际生效的分页参数
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}
	if opts.PageSize > news.MaxPageSize {
		opts.PageSize = news.MaxPageSize
	}

	writeJSONResponse(w, http.StatusOK, newsListResponse{
		OK:       true,
		Items:    items,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	})
}

// GetNews 返回单条新闻。
// GET /api/news/:id
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, newsItemResponse{OK: true, Item: item})
}

// CreateNews 手动创建一条新闻。
// POST /api/news
func (h *NewsHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req createNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("请求体不是合法的JSON"))
		return
	}

	item, err := h.service.Create(news.CreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Summary:  req.Summary,
		Image:    req.Image,
		ImageAlt: req.ImageAlt,
		Author:   req.Author,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, newsItemResponse{OK: true, Item: item})
}

// UpdateNews 对指定新闻做部分更新。
// PUT /api/news/:id
func (h *NewsHandler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	var req updateNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("请求体不是合法的JSON"))
		return
	}

	item, err := h.service.Update(chi.URLParam(r, "id"), news.UpdateInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Summary:  req.Summary,
		Image:    req.Image,
		ImageAlt: req.ImageAlt,
		Author:   req.Author,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newsItemResponse{OK: true, Item: item})
}

// DeleteNews 移除指定新闻。
// DELETE /api/news/:id
func (h *NewsHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.Delete(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK      bool `json:"ok"`
		Removed int  `json:"removed"`
	}{OK: true, Removed: removed})
}

// AddView 浏览数加1。
// POST /api/news/:id/view
func (h *NewsHandler) AddView(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.AddView(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK    bool `json:"ok"`
		Views int  `json:"views"`
	}{OK: true, Views: views})
}

// AddLike 调整点赞数。
// POST /api/news/:id/like（请求体 {"op":"dec"} 时减1，缺省加1）
func (h *NewsHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	// 空请求体按缺省操作处理
	_ = json.NewDecoder(r.Body).Decode(&req)

	likes, err := h.service.AddLike(chi.URLParam(r, "id"), req.Op)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK    bool `json:"ok"`
		Likes int  `json:"likes"`
	}{OK: true, Likes: likes})
}

// AddComment 评论数加1。
// POST /api/news/:id/comment
func (h *NewsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.AddComment(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK            bool `json:"ok"`
		CommentsCount int  `json:"commentsCount"`
	}{OK: true, CommentsCount: comments})
}

// ListTags 返回标签统计。
// GET /api/tags
func (h *NewsHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, struct {
		OK   bool             `json:"ok"`
		Tags []model.TagCount `json:"tags"`
	}{OK: true, Tags: h.service.Tags()})
}

// ImportNews 将根分区文档导入集合存储。
// POST /api/import-news
func (h *NewsHandler) ImportNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Import()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, struct {
		OK       bool             `json:"ok"`
		Imported int              `json:"imported"`
		Items    []model.NewsItem `json:"items"`
	}{OK: true, Imported: len(items), Items: items})
}

// parseIntOrDefault 解析整数参数，空值或非法值返回缺省值。
func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
