package news

import (
	"testing"

	"github.com/kgwater/vf-news/internal/model"
)

func fixtureItems() []model.NewsItem {
	return []model.NewsItem{
		{ID: "a", Tags: []string{"科技"}, CreatedAt: 100, Hot: 50},
		{ID: "b", Tags: []string{"科技", "城市"}, CreatedAt: 300, Hot: 10},
		{ID: "c", Tags: []string{"城市"}, CreatedAt: 200, Hot: 50},
		{ID: "d", Tags: []string{}, CreatedAt: 400, Hot: 30},
	}
}

// TestHotScore 测试派生热度公式。
func TestHotScore(t *testing.T) {
	if got := HotScore(1, 1, 1); got != 8 {
		t.Errorf("HotScore(1,1,1) = %d, want 8", got)
	}
	if got := HotScore(0, 0, 0); got != 0 {
		t.Errorf("HotScore(0,0,0) = %d, want 0", got)
	}
}

// TestRank_TagFilter 测试标签过滤为区分大小写的精确匹配，
// total 为过滤后、分页前的数量。
func TestRank_TagFilter(t *testing.T) {
	items, total := Rank(fixtureItems(), RankOptions{Tag: "科技", Page: 1, PageSize: 10})
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(items) != 2 {
		t.Fatalf("items count = %d, want 2", len(items))
	}
	for _, item := range items {
		if !containsTag(item.Tags, "科技") {
			t.Errorf("item %q missing tag", item.ID)
		}
	}

	if _, total := Rank(fixtureItems(), RankOptions{Tag: "不存在", Page: 1, PageSize: 10}); total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

// TestRank_SortLatest 测试 latest 排序按 createdAt 降序。
func TestRank_SortLatest(t *testing.T) {
	items, _ := Rank(fixtureItems(), RankOptions{Sort: model.SortLatest, Page: 1, PageSize: 10})
	want := []string{"d", "b", "c", "a"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %q, want %q", i, items[i].ID, id)
		}
	}
}

// TestRank_SortComposite 测试缺省 composite 排序：
// 热度降序，热度相同时按 createdAt 降序。
func TestRank_SortComposite(t *testing.T) {
	items, _ := Rank(fixtureItems(), RankOptions{Page: 1, PageSize: 10})
	// a 与 c 热度同为50，c 的 createdAt 更新故排前
	want := []string{"c", "a", "d", "b"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %q, want %q", i, items[i].ID, id)
		}
	}
}

// TestRank_SortStability 测试排序对相等键保持输入相对顺序。
func TestRank_SortStability(t *testing.T) {
	equal := []model.NewsItem{
		{ID: "x", CreatedAt: 1, Hot: 5},
		{ID: "y", CreatedAt: 1, Hot: 5},
		{ID: "z", CreatedAt: 1, Hot: 5},
	}
	items, _ := Rank(equal, RankOptions{Sort: model.SortHot, Page: 1, PageSize: 10})
	want := []string{"x", "y", "z"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d] = %q, want %q", i, items[i].ID, id)
		}
	}
}

// TestRank_PaginationBounds 测试分页参数的边界处理。
func TestRank_PaginationBounds(t *testing.T) {
	src := fixtureItems()

	// 每页条数上限
	items, _ := Rank(src, RankOptions{Page: 1, PageSize: 500})
	if len(items) != 4 {
		t.Errorf("items count = %d, want 4", len(items))
	}

	// 页码小于1按1处理
	first, _ := Rank(src, RankOptions{Page: 0, PageSize: 2})
	if len(first) != 2 {
		t.Errorf("page 0 items count = %d, want 2", len(first))
	}

	// 超出范围的页码返回空页，total 不变
	items, total := Rank(src, RankOptions{Page: 99, PageSize: 2})
	if len(items) != 0 {
		t.Errorf("out-of-range page items = %d, want 0", len(items))
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}

	// 第二页
	second, _ := Rank(src, RankOptions{Sort: model.SortLatest, Page: 2, PageSize: 3})
	if len(second) != 1 || second[0].ID != "a" {
		t.Errorf("second page = %+v, want [a]", second)
	}
}

// TestRank_DoesNotMutateInput 测试排序在副本上进行，不改变输入切片。
func TestRank_DoesNotMutateInput(t *testing.T) {
	src := fixtureItems()
	Rank(src, RankOptions{Sort: model.SortLatest, Page: 1, PageSize: 10})
	if src[0].ID != "a" {
		t.Errorf("input mutated: src[0] = %q, want a", src[0].ID)
	}
}
