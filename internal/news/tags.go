package news

import (
	"sort"

	"github.com/kgwater/vf-news/internal/model"
)

// TagCounts 统计合并视图中每个标签的出现次数。
// 含N个标签的条目为N个计数各贡献1。结果按次数降序，
// 次数相同按标签名字典序升序。
func TagCounts(items []model.NewsItem) []model.TagCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, tag := range item.Tags {
			counts[tag]++
		}
	}

	result := make([]model.TagCount, 0, len(counts))
	for tag, count := range counts {
		result = append(result, model.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})
	return result
}
