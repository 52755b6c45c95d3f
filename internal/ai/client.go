// Package ai 提供基于 OpenAI 兼容接口的虚拟新闻生成。
// API Key 随请求传入，不落盘、不记录日志。
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/security"
)

// GeneratedNews 是生成结果，字段名与模型输出的JSON对应。
type GeneratedNews struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GenerateParams 是单次生成的参数。
// BaseURL 与 Model 为空时使用客户端的缺省配置。
type GenerateParams struct {
	APIKey      string
	BaseURL     string
	Model       string
	Category    string
	TitleHint   string
	Tone        string
	Length      int
	Temperature float64
	World       model.WorldSetting
}

// Generator 是虚拟新闻的生成接口。
type Generator interface {
	// Generate 调用外部模型生成一篇虚拟新闻。
	Generate(ctx context.Context, params GenerateParams) (*GeneratedNews, error)
	// TestKey 用模型列表接口轻量验证 API Key 的有效性。
	TestKey(ctx context.Context, apiKey, baseURL string) error
}

// jsonObjectPattern 从模型回复中提取JSON对象（兼容代码块包裹的输出）。
var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// Client 是 Generator 的HTTP实现。
// 外部端点允许按请求覆盖，覆盖值经端点防护校验后才会使用。
type Client struct {
	httpClient     *http.Client
	guard          security.EndpointGuardService
	defaultBaseURL string
	defaultModel   string
	logger         *slog.Logger
}

// NewClient 生成 Client 实例。HTTP客户端由端点防护构造，带SSRF防护。
func NewClient(
	guard security.EndpointGuardService,
	defaultBaseURL, defaultModel string,
	timeout time.Duration,
	logger *slog.Logger,
) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:     guard.NewSafeClient(timeout),
		guard:          guard,
		defaultBaseURL: defaultBaseURL,
		defaultModel:   defaultModel,
		logger:         logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate 调用 chat/completions 接口生成一篇虚拟新闻。
// 模型输出要求为 {"title":...,"content":...} 形态的JSON，
// 直接解析失败时退回正则提取（兼容代码块与前后缀说明文字）。
func (c *Client) Generate(ctx context.Context, params GenerateParams) (*GeneratedNews, error) {
	if params.APIKey == "" {
		return nil, model.NewValidationError("apiKey 为必填字段")
	}

	baseURL, err := c.resolveBaseURL(params.BaseURL)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("baseUrl 不合法: %v", err))
	}

	modelName := params.Model
	if modelName == "" {
		modelName = c.defaultModel
	}
	temperature := params.Temperature
	if temperature == 0 {
		temperature = 0.8
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:       modelName,
		Temperature: temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(params)},
		},
	})
	if err != nil {
		return nil, model.NewGenerationError("请求构造失败")
	}

	endpoint := baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, model.NewGenerationError("请求构造失败")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+params.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("AI接口请求失败", slog.String("error", err.Error()))
		return nil, model.NewGenerationError("接入点请求失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("AI接口返回异常状态",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(b)),
		)
		return nil, model.NewGenerationError(fmt.Sprintf("接入点返回 %d", resp.StatusCode))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, model.NewGenerationError("响应解析失败")
	}
	if len(cr.Choices) == 0 {
		return nil, model.NewGenerationError("响应不含任何结果")
	}

	generated, ok := parseGenerated(cr.Choices[0].Message.Content)
	if !ok {
		return nil, model.NewGenerationError("模型输出格式不符合预期")
	}
	return generated, nil
}

// TestKey 调用模型列表接口验证 API Key。
func (c *Client) TestKey(ctx context.Context, apiKey, baseURL string) error {
	if apiKey == "" {
		return model.NewValidationError("apiKey 为必填字段")
	}

	resolved, err := c.resolveBaseURL(baseURL)
	if err != nil {
		return model.NewValidationError(fmt.Sprintf("baseUrl 不合法: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved+"/v1/models", nil)
	if err != nil {
		return model.NewGenerationError("请求构造失败")
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewGenerationError("接入点请求失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return model.NewGenerationError(fmt.Sprintf("接入点返回 %d: %s", resp.StatusCode, string(b)))
	}
	return nil
}

// resolveBaseURL 返回去尾斜杠、通过端点防护校验后的基础URL。
func (c *Client) resolveBaseURL(override string) (string, error) {
	base := override
	if base == "" {
		base = c.defaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	if err := c.guard.ValidateURL(base); err != nil {
		return "", err
	}
	return base, nil
}

// systemPrompt 约束模型只产出完全虚构且安全的内容。
const systemPrompt = "你是一个创作虚拟新闻的系统。严格遵守以下规则：\n" +
	"1) 所有内容全部为虚构，不得出现现实中的地名、人名、国家、组织、品牌与可识别实体。\n" +
	"2) 禁止涉及恐怖主义、色情、血腥、惊悚等敏感内容。\n" +
	"3) 语言风格应贴合世界观设定，确保自洽。\n" +
	"4) 不要输出任何与现实直接相关的描述或影射。"

// buildUserPrompt 组装含世界观与生成要求的用户侧提示词。
func buildUserPrompt(params GenerateParams) string {
	category := params.Category
	if category == "" {
		category = "general"
	}
	tone := params.Tone
	if tone == "" {
		tone = "新闻纪实与世界观叙述融合，保持克制且具画面感"
	}
	length := params.Length
	if length <= 0 {
		length = 400
	}

	worldSeg := "世界观：未提供，保持完全虚构与安全"
	if worldJSON, err := json.MarshalIndent(params.World, "", "  "); err == nil && params.World.WorldName != "" {
		worldSeg = "世界观：" + string(worldJSON)
	}

	var sb strings.Builder
	sb.WriteString(worldSeg)
	sb.WriteString(fmt.Sprintf("\n类别：%s", category))
	sb.WriteString(fmt.Sprintf("\n风格：%s", tone))
	sb.WriteString(fmt.Sprintf("\n长度：约%d字（不必严格）", length))
	sb.WriteString("\n\n请生成一篇虚拟新闻。输出JSON对象，字段：title, content。")
	sb.WriteString("\n要求：")
	sb.WriteString("\n- 标题不包含现实专有名词。")
	sb.WriteString("\n- 正文300-600字，叙述清晰、设定一致。")
	sb.WriteString("\n- 不得包含现实地名、人名、国家等。")
	sb.WriteString("\n- 不涉及恐怖主义、色情、血腥、惊悚等。")
	if params.TitleHint != "" {
		sb.WriteString(fmt.Sprintf("\n- 标题方向提示：%s", params.TitleHint))
	}
	sb.WriteString("\n\n仅输出JSON，无需多余解释。例子：{\"title\":\"...\",\"content\":\"...\"}")
	return sb.String()
}

// parseGenerated 从模型回复中解析生成结果。
func parseGenerated(content string) (*GeneratedNews, bool) {
	var g GeneratedNews
	if err := json.Unmarshal([]byte(content), &g); err != nil {
		match := jsonObjectPattern.FindString(content)
		if match == "" {
			return nil, false
		}
		if err := json.Unmarshal([]byte(match), &g); err != nil {
			return nil, false
		}
	}
	if g.Title == "" || g.Content == "" {
		return nil, false
	}
	return &g, true
}

var _ Generator = (*Client)(nil)
