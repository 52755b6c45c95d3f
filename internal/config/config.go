package config

import (
	"os"
	"strconv"
	"time"
)

// Config 保存应用全部配置。
// 启动时从环境变量读取一次，之后作为不可变对象传递，不使用包级全局状态。
type Config struct {
	// Storage
	DataDir    string // 集合文件目录（news.json / drafts.json / worldsetting.json）
	NewslogDir string // 文档目录，子目录为命名分区

	// Moderation
	ModerationEnabled bool   // false 时合规过滤退化为直通
	PolicyRuleFile    string // 可选的 YAML 规则扩展文件

	// AI Generation
	GenerationEnabled bool
	AIBaseURL         string // OpenAI 兼容接入点，允许请求级覆盖
	AIModel           string
	AITimeout         time.Duration

	// Rate Limit（按客户端IP）
	RateLimitGeneral    int // 常规接口 req/min
	RateLimitGeneration int // 生成接口 req/min

	// Server
	ServerPort        string
	CORSAllowedOrigin string
}

// Load 从环境变量读取 Config。
// 所有字段均有缺省值，本服务可以零配置启动（使用当前目录下的 data 与 newslog）。
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:    getEnvString("DATA_DIR", "data"),
		NewslogDir: getEnvString("NEWSLOG_DIR", "newslog"),

		ModerationEnabled: getEnvBool("MODERATION_ENABLED", true),
		PolicyRuleFile:    getEnvString("POLICY_RULE_FILE", ""),

		GenerationEnabled: getEnvBool("GENERATION_ENABLED", true),
		AIBaseURL:         getEnvString("AI_BASE_URL", "https://api.openai.com"),
		AIModel:           getEnvString("AI_MODEL", "gpt-4o-mini"),
		AITimeout:         getEnvDuration("AI_TIMEOUT", 60*time.Second),

		RateLimitGeneral:    getEnvInt("RATE_LIMIT_GENERAL", 120),
		RateLimitGeneration: getEnvInt("RATE_LIMIT_GENERATION", 10),

		ServerPort:        getEnvString("SERVER_PORT", "5175"),
		CORSAllowedOrigin: getEnvString("CORS_ALLOWED_ORIGIN", "*"),
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
