package news

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// randomSuffix 返回8位随机后缀，用于ID去重。
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewID 生成带前缀的新ID：<prefix>_<当前毫秒>_<随机后缀>。
// 已发布新闻使用前缀 n，草稿使用前缀 d。
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), randomSuffix())
}

// synthDocumentID 为缺少显式ID的文档合成ID。
// 以文件修改时间加随机后缀构成，保证同一文件的多次导入生成互不相同的ID。
func synthDocumentID(mtime time.Time) string {
	return fmt.Sprintf("json_%d_%s", mtime.UnixMilli(), randomSuffix())
}
