// Package app 负责应用的初始化、依赖装配与启动。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/kgwater/vf-news/internal/ai"
	"github.com/kgwater/vf-news/internal/config"
	"github.com/kgwater/vf-news/internal/draft"
	"github.com/kgwater/vf-news/internal/handler"
	"github.com/kgwater/vf-news/internal/logger"
	"github.com/kgwater/vf-news/internal/metrics"
	"github.com/kgwater/vf-news/internal/middleware"
	"github.com/kgwater/vf-news/internal/news"
	"github.com/kgwater/vf-news/internal/policy"
	"github.com/kgwater/vf-news/internal/security"
	"github.com/kgwater/vf-news/internal/storage"
	"github.com/kgwater/vf-news/internal/world"
)

// Init 执行应用初始化。
// 从环境变量读取 Config，并设置JSON结构化日志。
// 指定 writer 时日志输出到该 writer。
func Init(w io.Writer) (*config.Config, error) {
	// 1. 日志初始化（在读配置前保证日志可用）
	logger.SetupDefault(w)

	// 2. 从环境变量读取配置
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 是应用的主入口。
// 从命令行参数解析子命令并以相应模式启动。args 传 os.Args[1:]。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 是轻量子命令，跳过完整初始化
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "5175"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("data_dir", cfg.DataDir),
		slog.String("newslog_dir", cfg.NewslogDir),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe 以API服务器模式启动。
// 装配全部依赖并启动HTTP服务器。
// 收到 SIGINT 或 SIGTERM 信号时执行优雅停机。
func runServe(cfg *config.Config) error {
	log := slog.Default()

	// 1. 存储层
	store := storage.NewFileStore(cfg.DataDir, cfg.NewslogDir, log)

	// 2. 合规过滤器
	filter, err := buildFilter(cfg)
	if err != nil {
		return fmt.Errorf("failed to build policy filter: %w", err)
	}

	// 3. 安全组件
	guard := security.NewEndpointGuard()
	sanitizer := security.NewSanitizer()

	// 4. 指标
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. 领域服务
	newsService := news.NewService(store, filter, sanitizer, collector, log)
	worldService := world.NewService(store, log)

	// AI 生成按配置启用，关闭时草稿生成接口返回不可用错误
	var generator ai.Generator
	var keyTester handler.KeyTesterInterface
	if cfg.GenerationEnabled {
		client := ai.NewClient(guard, cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout, log)
		generator = client
		keyTester = client
	}

	draftService := draft.NewService(
		store, filter, generator, worldService, newsService, collector, log,
	)

	// 6. 限流（req/min → req/sec）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.GenerateRate = rate.Limit(float64(cfg.RateLimitGeneration) / 60.0)
	rateLimiterCfg.GenerateBurst = cfg.RateLimitGeneration

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. 路由器
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            log,
		Metrics:           collector,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		MetricsHandler:    metrics.Handler(registry),

		NewsService:  newsService,
		DraftService: draftService,
		WorldService: worldService,
		StatsService: newsService,
		KeyTester:    keyTester,
	})

	// 8. HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // AI生成请求耗时较长
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// buildFilter 按配置构造合规过滤器。
// 审核关闭时返回直通实现；规则文件配置后附加到内置规则之上。
func buildFilter(cfg *config.Config) (policy.Filter, error) {
	if !cfg.ModerationEnabled {
		slog.Warn("content moderation disabled")
		return policy.AllowAll{}, nil
	}

	rules, err := policy.LoadRules(cfg.PolicyRuleFile)
	if err != nil {
		return nil, fmt.Errorf("load policy rules: %w", err)
	}
	return policy.NewRuleFilter(rules)
}

// runMigrate 将 newslog 命名分区的文档搬运到根分区。
// 原分区文件保留，重复执行会产生新副本。
func runMigrate(cfg *config.Config) error {
	log := slog.Default()
	store := storage.NewFileStore(cfg.DataDir, cfg.NewslogDir, log)

	moved, err := news.Flatten(store, log)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("migration completed", slog.Int("moved", moved))
	return nil
}

// runHealthcheck 执行健康检查。
// 供 distroless 环境的 Docker 健康检查使用：
// 向 /api/health 发起HTTP请求并返回结果。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/api/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
