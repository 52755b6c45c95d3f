package news

import (
	"sort"

	"github.com/kgwater/vf-news/internal/model"
)

// 分页参数的边界。
const (
	// DefaultPageSize 是未指定时的每页条数。
	DefaultPageSize = 10
	// MaxPageSize 是每页条数的上限。
	MaxPageSize = 50
)

// HotScore 计算派生热度：views + likes*3 + comments*4。
// 每次读取重新计算，不信任存储中的热度值。
func HotScore(views, likes, comments int) int {
	return views + likes*3 + comments*4
}

// RankOptions 控制过滤、排序与分页。
type RankOptions struct {
	Tag      string          // 标签过滤，精确匹配，空串不过滤
	Sort     model.SortOrder // 排序策略，空值按 composite 处理
	Page     int             // 1 起始，小于1时按1处理
	PageSize int             // 限制在 [1, MaxPageSize]
}

// Rank 对条目执行过滤、排序、分页，返回当前页与过滤后的总数。
// total 为过滤后、分页前的条目数，与页码无关。
// 页码超出范围时返回空页而非错误。排序对相等键保持稳定。
func Rank(items []model.NewsItem, opts RankOptions) ([]model.NewsItem, int) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	size := opts.PageSize
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	filtered := items
	if opts.Tag != "" {
		filtered = make([]model.NewsItem, 0, len(items))
		for _, item := range items {
			if containsTag(item.Tags, opts.Tag) {
				filtered = append(filtered, item)
			}
		}
	}

	sorted := make([]model.NewsItem, len(filtered))
	copy(sorted, filtered)

	switch opts.Sort {
	case model.SortLatest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt > sorted[j].CreatedAt
		})
	case model.SortHot:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Hot > sorted[j].Hot
		})
	default:
		// composite: 热度降序，热度相同时按时间降序
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Hot != sorted[j].Hot {
				return sorted[i].Hot > sorted[j].Hot
			}
			return sorted[i].CreatedAt > sorted[j].CreatedAt
		})
	}

	total := len(sorted)
	start := (page - 1) * size
	if start >= total {
		return []model.NewsItem{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return sorted[start:end], total
}

// containsTag 判断标签列表是否包含指定标签（区分大小写的精确匹配）。
func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
