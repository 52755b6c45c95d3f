// Package model 定义领域模型。
package model

// DefaultAuthor 是作者字段缺省时使用的占位名称。
const DefaultAuthor = "VF News"

// 新闻条目的来源标识。
const (
	// SourceDocument 表示条目来自 newslog 文档目录。
	SourceDocument = "document"
	// SourceRecord 表示条目来自可变集合存储。
	SourceRecord = "record"
)

// NewsItem 表示合并视图中的一条已发布新闻。
// 字段名与磁盘 JSON 保持一致（沿用原始数据文件的驼峰命名）。
type NewsItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	CreatedAt     int64    `json:"createdAt"` // 毫秒时间戳，时间排序的唯一依据
	Views         int      `json:"views"`
	Likes         int      `json:"likes"`
	CommentsCount int      `json:"commentsCount"`
	// Hot 为派生热度值，每次读取重新计算，存储中的值仅作展示缓存。
	Hot      int    `json:"hot"`
	Summary  string `json:"summary"`
	Image    string `json:"image"`
	ImageAlt string `json:"imageAlt"`
	Author   string `json:"author"`
	Source   string `json:"source,omitempty"`
	// Filename 仅文档来源的条目存在。
	Filename string `json:"filename,omitempty"`
}

// Draft 表示待发布的草稿，仅存在于集合存储中。
type Draft struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"`
}

// WorldSetting 表示世界观设定，整体读取、整体替换。
type WorldSetting struct {
	WorldName   string   `json:"worldName"`
	Description string   `json:"description"`
	Rules       []string `json:"rules"`
}

// DefaultWorldSetting 返回初始世界观设定。
// 数据文件缺失时由存储层写入该缺省值。
func DefaultWorldSetting() WorldSetting {
	return WorldSetting{
		WorldName:   "Default Virtual World",
		Description: "一个持续演化的虚拟世界，所有新闻均为AI生成的虚构内容",
		Rules: []string{
			"不得出现现实中的地名、人名、国家等",
			"不得涉及恐怖主义、色情、血腥、恐怖等内容",
			"所有内容末尾附加免责声明",
		},
	}
}

// TagCount 表示某个标签及其在合并视图中的出现次数。
// 每次请求重新统计，不做持久化。
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// SortOrder 表示新闻列表的排序策略。
type SortOrder string

const (
	// SortLatest 按 createdAt 降序。
	SortLatest SortOrder = "latest"
	// SortHot 按热度降序。
	SortHot SortOrder = "hot"
	// SortComposite 按热度降序，热度相同时按 createdAt 降序。缺省策略。
	SortComposite SortOrder = "composite"
)
