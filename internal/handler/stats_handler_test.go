package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kgwater/vf-news/internal/news"
)

// TestGetOverview 测试总体统计响应。
func TestGetOverview(t *testing.T) {
	svc := defaultServices()
	svc.stats.overviewFunc = func() news.Overview {
		return news.Overview{TotalNews: 12, TotalViews: 340}
	}
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		OK   bool          `json:"ok"`
		Data news.Overview `json:"data"`
	}
	decodeBody(t, rec.Body, &resp)
	if !resp.OK || resp.Data.TotalNews != 12 || resp.Data.TotalViews != 340 {
		t.Errorf("resp = %+v", resp)
	}
}

// TestGetCategoryStats 测试分类统计响应。
func TestGetCategoryStats(t *testing.T) {
	svc := defaultServices()
	svc.stats.categoryStatsFunc = func() []news.CategoryStat {
		return []news.CategoryStat{{Tag: "科技", Count: 5}, {Tag: "general", Count: 2}}
	}
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/categories", nil))

	var resp struct {
		OK   bool                `json:"ok"`
		Data []news.CategoryStat `json:"data"`
	}
	decodeBody(t, rec.Body, &resp)
	if !resp.OK || len(resp.Data) != 2 || resp.Data[0].Tag != "科技" {
		t.Errorf("resp = %+v", resp)
	}
}

// TestGetCategoryDetail 测试单分类统计响应，标签取自路径参数。
func TestGetCategoryDetail(t *testing.T) {
	svc := defaultServices()
	var gotTag string
	svc.stats.categoryDetailFunc = func(tag string) news.CategoryDetail {
		gotTag = tag
		return news.CategoryDetail{Tag: tag, Count: 3}
	}
	router := newTestRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/categories/科技", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotTag != "科技" {
		t.Errorf("tag = %q", gotTag)
	}

	var resp struct {
		OK   bool                `json:"ok"`
		Data news.CategoryDetail `json:"data"`
	}
	decodeBody(t, rec.Body, &resp)
	if !resp.OK || resp.Data.Count != 3 {
		t.Errorf("resp = %+v", resp)
	}
}
