package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kgwater/vf-news/internal/metrics"
	"github.com/kgwater/vf-news/internal/middleware"
)

// RouterDeps 汇总 NewRouter 需要的依赖。
type RouterDeps struct {
	// 中间件依赖
	Logger            *slog.Logger
	Metrics           metrics.Recorder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 指标抓取端点，nil 时不暴露 /metrics
	MetricsHandler http.Handler

	// 业务服务
	NewsService  NewsServiceInterface
	DraftService DraftServiceInterface
	WorldService WorldServiceInterface
	StatsService StatsServiceInterface
	KeyTester    KeyTesterInterface
}

// NewRouter 返回配置好全部API路由与中间件链的chi路由器。
//
// 中间件执行顺序:
//
//	CORS → Recovery → Logging → RateLimit(General)
//
// AI生成路由额外叠加生成专用限流。/api/health 与 /metrics 不参与限流。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))

	newsHandler := NewNewsHandler(deps.NewsService)
	draftHandler := NewDraftHandler(deps.DraftService)
	worldHandler := NewWorldHandler(deps.WorldService)
	statsHandler := NewStatsHandler(deps.StatsService)
	aiHandler := NewAIHandler(deps.KeyTester)

	// --- 不限流的路由 ---

	r.Get("/api/health", handleHealth)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- 限流的业务路由 ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 新闻管理
		r.Route("/api/news", func(r chi.Router) {
			r.Get("/", newsHandler.ListNews)
			r.Post("/", newsHandler.CreateNews)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", newsHandler.GetNews)
				r.Put("/", newsHandler.UpdateNews)
				r.Delete("/", newsHandler.DeleteNews)

				r.Post("/view", newsHandler.AddView)
				r.Post("/like", newsHandler.AddLike)
				r.Post("/comment", newsHandler.AddComment)
			})
		})

		// 标签与导入
		r.Get("/api/tags", newsHandler.ListTags)
		r.Post("/api/import-news", newsHandler.ImportNews)

		// 草稿管理
		r.Route("/api/drafts", func(r chi.Router) {
			// POST /api/drafts/generate - AI生成（叠加生成专用限流）
			r.With(deps.RateLimiter.GenerateMiddleware()).Post("/generate", draftHandler.Generate)

			r.Get("/", draftHandler.ListDrafts)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", draftHandler.GetDraft)
				r.Put("/", draftHandler.EditDraft)
				r.Delete("/", draftHandler.DeleteDraft)
				r.Post("/publish", draftHandler.PublishDraft)
			})
		})

		// 世界观设定
		r.Route("/api/worldsetting", func(r chi.Router) {
			r.Get("/", worldHandler.GetWorldSetting)
			r.Put("/", worldHandler.PutWorldSetting)
		})

		// 统计
		r.Route("/api/stats", func(r chi.Router) {
			r.Get("/", statsHandler.GetOverview)
			r.Get("/categories", statsHandler.GetCategoryStats)
			r.Get("/categories/{tag}", statsHandler.GetCategoryDetail)
		})

		// AI辅助
		r.With(deps.RateLimiter.GenerateMiddleware()).Post("/api/ai/test", aiHandler.TestKey)
	})

	return r
}

// handleHealth 返回存活探测响应。
// GET /api/health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, struct {
		OK   bool   `json:"ok"`
		Time string `json:"time"`
	}{OK: true, Time: time.Now().UTC().Format(time.RFC3339)})
}
