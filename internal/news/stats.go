package news

import (
	"math"
	"sort"

	"github.com/kgwater/vf-news/internal/model"
)

// generalCategory 是无标签条目在统计中的归属分类。
const generalCategory = "general"

// Overview 是总体统计信息。
type Overview struct {
	TotalNews       int              `json:"totalNews"`
	TotalCategories int              `json:"totalCategories"`
	TotalViews      int              `json:"totalViews"`
	TotalLikes      int              `json:"totalLikes"`
	TotalComments   int              `json:"totalComments"`
	AvgHot          int              `json:"avgHot"`
	HottestNews     []model.NewsItem `json:"hottestNews"`
	LatestNews      []model.NewsItem `json:"latestNews"`
	CategoryStats   []CategoryStat   `json:"categoryStats"`
}

// CategoryStat 是单个分类的统计信息。
type CategoryStat struct {
	Tag   string           `json:"tag"`
	Count int              `json:"count"`
	News  []model.NewsItem `json:"news"`
}

// CategoryDetail 是单个分类的详细统计。
type CategoryDetail struct {
	Tag           string           `json:"tag"`
	Count         int              `json:"count"`
	TotalViews    int              `json:"totalViews"`
	TotalLikes    int              `json:"totalLikes"`
	TotalComments int              `json:"totalComments"`
	News          []model.NewsItem `json:"news"`
}

// BuildCategoryStats 按标签聚合条目。无标签条目计入 general 分类。
// 结果按条目数降序，数目相同按标签名升序。
func BuildCategoryStats(items []model.NewsItem) []CategoryStat {
	byTag := make(map[string][]model.NewsItem)
	for _, item := range items {
		if len(item.Tags) == 0 {
			byTag[generalCategory] = append(byTag[generalCategory], item)
			continue
		}
		for _, tag := range item.Tags {
			byTag[tag] = append(byTag[tag], item)
		}
	}

	stats := make([]CategoryStat, 0, len(byTag))
	for tag, news := range byTag {
		stats = append(stats, CategoryStat{Tag: tag, Count: len(news), News: news})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Tag < stats[j].Tag
	})
	return stats
}

// BuildOverview 汇总全量条目的总体统计。
// 热度按派生公式重新计算，最热与最新各取前5条。
func BuildOverview(items []model.NewsItem) Overview {
	o := Overview{
		TotalNews:     len(items),
		CategoryStats: BuildCategoryStats(items),
	}
	o.TotalCategories = len(o.CategoryStats)

	totalHot := 0
	for _, item := range items {
		o.TotalViews += item.Views
		o.TotalLikes += item.Likes
		o.TotalComments += item.CommentsCount
		totalHot += HotScore(item.Views, item.Likes, item.CommentsCount)
	}
	if len(items) > 0 {
		o.AvgHot = int(math.Round(float64(totalHot) / float64(len(items))))
	}

	hottest := make([]model.NewsItem, len(items))
	copy(hottest, items)
	for i := range hottest {
		hottest[i].Hot = HotScore(hottest[i].Views, hottest[i].Likes, hottest[i].CommentsCount)
	}
	sort.SliceStable(hottest, func(i, j int) bool { return hottest[i].Hot > hottest[j].Hot })
	o.HottestNews = topN(hottest, 5)

	latest := make([]model.NewsItem, len(items))
	copy(latest, items)
	sort.SliceStable(latest, func(i, j int) bool { return latest[i].CreatedAt > latest[j].CreatedAt })
	o.LatestNews = topN(latest, 5)

	return o
}

// BuildCategoryDetail 汇总单个分类的详细统计。
// tag 为 general 时同时包含无标签条目。
func BuildCategoryDetail(items []model.NewsItem, tag string) CategoryDetail {
	detail := CategoryDetail{Tag: tag, News: []model.NewsItem{}}
	for _, item := range items {
		if containsTag(item.Tags, tag) || (tag == generalCategory && len(item.Tags) == 0) {
			detail.News = append(detail.News, item)
			detail.TotalViews += item.Views
			detail.TotalLikes += item.Likes
			detail.TotalComments += item.CommentsCount
		}
	}
	detail.Count = len(detail.News)
	return detail
}

// topN 返回前n个元素（不足时返回全部）。
func topN(items []model.NewsItem, n int) []model.NewsItem {
	if len(items) > n {
		items = items[:n]
	}
	return items
}
