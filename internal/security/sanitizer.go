package security

import "github.com/microcosm-cc/bluemonday"

// SanitizerService 定义用户提交内容的净化接口。
// 新闻正文与摘要在写入集合前统一经过净化。
type SanitizerService interface {
	// Sanitize 净化输入并返回安全文本。
	// 仅保留基础排版标签（p, br, strong, em, blockquote），
	// script、iframe、style 及全部 on* 事件属性都会被移除。
	// 同一输入始终产生同一输出（幂等）。
	Sanitize(raw string) string
}

// sanitizer 是 SanitizerService 的实现，持有 bluemonday 策略，可并发使用。
type sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer 生成 SanitizerService 实例。
// 新闻内容以纯文本为主，策略比通用UGC策略更严格：
// 不允许链接与图片标签，展示用图片走独立的 image 元数据字段。
func NewSanitizer() *sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "em", "blockquote")
	return &sanitizer{policy: p}
}

// Sanitize 净化输入并返回安全文本。
func (s *sanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}

var _ SanitizerService = (*sanitizer)(nil)
