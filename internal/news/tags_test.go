package news

import (
	"testing"

	"github.com/kgwater/vf-news/internal/model"
)

// TestTagCounts_OrderAndCounts 测试标签统计按次数降序、同次数按字典序升序。
func TestTagCounts_OrderAndCounts(t *testing.T) {
	items := []model.NewsItem{
		{ID: "a", Tags: []string{"科技", "城市"}},
		{ID: "b", Tags: []string{"科技"}},
		{ID: "c", Tags: []string{"轶事"}},
		{ID: "d", Tags: []string{}},
	}

	counts := TagCounts(items)
	want := []model.TagCount{
		{Tag: "科技", Count: 2},
		{Tag: "城市", Count: 1},
		{Tag: "轶事", Count: 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}
}

// TestTagCounts_Empty 测试无标签时返回空统计。
func TestTagCounts_Empty(t *testing.T) {
	if counts := TagCounts(nil); len(counts) != 0 {
		t.Errorf("counts = %+v, want empty", counts)
	}
}
