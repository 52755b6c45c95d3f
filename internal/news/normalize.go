// Package news 提供新闻的归一化、聚合、排序与管理功能。
package news

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/storage"
)

// rawDocument 是文档文件的宽松解析结构。
// 兼容两代字段：旧结构携带 category/publishTime，新结构携带 tags/createdAt。
// 计数字段以 RawMessage 承载，兼容数字与数字字符串两种写法。
type rawDocument struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Tags          json.RawMessage `json:"tags"`
	Category      string          `json:"category"`
	PublishTime   string          `json:"publishTime"`
	CreatedAt     int64           `json:"createdAt"`
	Views         json.RawMessage `json:"views"`
	Likes         json.RawMessage `json:"likes"`
	CommentsCount json.RawMessage `json:"commentsCount"`
	Summary       string          `json:"summary"`
	Image         string          `json:"image"`
	ImageAlt      string          `json:"imageAlt"`
	Author        string          `json:"author"`
}

// publishTimeLayouts 是 publishTime 字段允许的日期格式。
var publishTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize 将原始文档解析为规范的 NewsItem。
// fallbackTag 为文档所在命名分区的标签，根分区传空串。
//
// 该函数是全量函数：任何解析失败都转化为 nil 返回值加一条诊断日志，
// 绝不向上抛出。必填字段为 title 与 content，缺失时文档被跳过。
func Normalize(doc storage.Document, fallbackTag string, logger *slog.Logger) *model.NewsItem {
	if logger == nil {
		logger = slog.Default()
	}

	var raw rawDocument
	if err := json.Unmarshal(doc.Raw, &raw); err != nil {
		logger.Warn("文档解析失败，跳过",
			slog.String("filename", doc.Filename),
			slog.String("partition", doc.Partition),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if raw.Title == "" || raw.Content == "" {
		logger.Warn("文档缺少必需字段，跳过",
			slog.String("filename", doc.Filename),
			slog.String("partition", doc.Partition),
		)
		return nil
	}

	id := raw.ID
	if id == "" {
		id = synthDocumentID(doc.ModTime)
	}

	author := raw.Author
	if author == "" {
		author = model.DefaultAuthor
	}

	return &model.NewsItem{
		ID:            id,
		Title:         raw.Title,
		Content:       raw.Content,
		Tags:          deriveTags(raw, fallbackTag),
		CreatedAt:     deriveCreatedAt(raw, doc.ModTime),
		Views:         coerceCount(raw.Views),
		Likes:         coerceCount(raw.Likes),
		CommentsCount: coerceCount(raw.CommentsCount),
		Summary:       raw.Summary,
		Image:         raw.Image,
		ImageAlt:      raw.ImageAlt,
		Author:        author,
		Source:        model.SourceDocument,
		Filename:      doc.Filename,
	}
}

// deriveTags 按优先级推导标签列表：
// 合法的字符串数组 tags > 单个 category 字符串 > 非根分区的分区标签 > 空。
// JSON null 不是字符串数组，落入后续的兜底链。
func deriveTags(raw rawDocument, fallbackTag string) []string {
	if len(raw.Tags) > 0 {
		var tags []string
		if err := json.Unmarshal(raw.Tags, &tags); err == nil && tags != nil {
			return tags
		}
	}
	if raw.Category != "" {
		return []string{raw.Category}
	}
	if fallbackTag != "" {
		return []string{fallbackTag}
	}
	return []string{}
}

// deriveCreatedAt 推导创建时间（毫秒）：
// 可解析的 publishTime > 正值的 createdAt > 文件修改时间。
func deriveCreatedAt(raw rawDocument, mtime time.Time) int64 {
	if raw.PublishTime != "" {
		for _, layout := range publishTimeLayouts {
			if t, err := time.Parse(layout, raw.PublishTime); err == nil {
				return t.UnixMilli()
			}
		}
	}
	if raw.CreatedAt > 0 {
		return raw.CreatedAt
	}
	return mtime.UnixMilli()
}

// coerceCount 将计数字段强制转为非负整数，兼容数字与数字字符串，缺省为0。
func coerceCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}

	if f < 0 {
		return 0
	}
	return int(f)
}
