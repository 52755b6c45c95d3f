package news

import (
	"log/slog"

	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/storage"
)

// CollectionFile 是可变新闻集合的文件名。
const CollectionFile = "news.json"

// newsCollection 是集合文件的信封结构。
type newsCollection struct {
	Items []model.NewsItem `json:"items"`
}

// Aggregator 将文档目录与集合存储合并为单一去重视图。
// 每次调用都从存储重新推导，不持有缓存。
type Aggregator struct {
	store  storage.Store
	logger *slog.Logger
}

// NewAggregator 生成 Aggregator。
func NewAggregator(store storage.Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, logger: logger}
}

// ListAll 返回两个来源合并、按ID去重后的全部条目。
//
// 合并顺序：根分区文档 → 各命名分区文档（分区按字典序、分区内按文件名序）
// → 集合存储条目。去重键为ID，先见者胜（含文档来源内部的ID冲突）；
// 落败条目仅从合并视图剔除，不触碰底层存储。
// 每个条目的热度在此重新计算，存储中的热度值不作排序依据。
//
// 单个文档或单个来源的读取失败只影响该部分，记录日志后继续返回部分结果。
func (a *Aggregator) ListAll() []model.NewsItem {
	seen := make(map[string]struct{})
	var merged []model.NewsItem

	appendItem := func(item model.NewsItem) {
		if _, dup := seen[item.ID]; dup {
			return
		}
		seen[item.ID] = struct{}{}
		item.Hot = HotScore(item.Views, item.Likes, item.CommentsCount)
		merged = append(merged, item)
	}

	// 1. 根分区文档
	for _, doc := range a.listPartition("") {
		if item := Normalize(doc, "", a.logger); item != nil {
			appendItem(*item)
		}
	}

	// 2. 命名分区文档，分区名作为回退标签
	partitions, err := a.store.Partitions()
	if err != nil {
		a.logger.Warn("分区枚举失败，跳过命名分区", slog.String("error", err.Error()))
	}
	for _, p := range partitions {
		for _, doc := range a.listPartition(p) {
			if item := Normalize(doc, p, a.logger); item != nil {
				appendItem(*item)
			}
		}
	}

	// 3. 集合存储条目，已是规范形态，仅补来源标识并重算热度
	var col newsCollection
	if _, err := a.store.ReadCollection(CollectionFile, &col); err != nil {
		a.logger.Warn("集合读取失败，跳过集合来源", slog.String("error", err.Error()))
	}
	for _, item := range col.Items {
		item.Source = model.SourceRecord
		appendItem(item)
	}

	return merged
}

// listPartition 枚举单个分区的文档，失败时记录日志并返回空。
func (a *Aggregator) listPartition(partition string) []storage.Document {
	docs, err := a.store.ListDocuments(partition)
	if err != nil {
		a.logger.Warn("文档枚举失败，跳过该分区",
			slog.String("partition", partition),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return docs
}
