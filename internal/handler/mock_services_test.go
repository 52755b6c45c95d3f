package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/kgwater/vf-news/internal/draft"
	"github.com/kgwater/vf-news/internal/middleware"
	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/news"
)

// --- 服务模拟 ---

// mockNewsService 用函数字段模拟新闻服务。
type mockNewsService struct {
	listFunc       func(opts news.RankOptions) ([]model.NewsItem, int)
	tagsFunc       func() []model.TagCount
	getFunc        func(id string) (*model.NewsItem, error)
	createFunc     func(input news.CreateInput) (*model.NewsItem, error)
	updateFunc     func(id string, input news.UpdateInput) (*model.NewsItem, error)
	deleteFunc     func(id string) (int, error)
	addViewFunc    func(id string) (int, error)
	addLikeFunc    func(id, op string) (int, error)
	addCommentFunc func(id string) (int, error)
	importFunc     func() ([]model.NewsItem, error)
}

func (m *mockNewsService) List(opts news.RankOptions) ([]model.NewsItem, int) {
	if m.listFunc != nil {
		return m.listFunc(opts)
	}
	return []model.NewsItem{}, 0
}

func (m *mockNewsService) Tags() []model.TagCount {
	if m.tagsFunc != nil {
		return m.tagsFunc()
	}
	return []model.TagCount{}
}

func (m *mockNewsService) Get(id string) (*model.NewsItem, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return nil, model.NewNewsNotFoundError(id)
}

func (m *mockNewsService) Create(input news.CreateInput) (*model.NewsItem, error) {
	if m.createFunc != nil {
		return m.createFunc(input)
	}
	return &model.NewsItem{}, nil
}

func (m *mockNewsService) Update(id string, input news.UpdateInput) (*model.NewsItem, error) {
	if m.updateFunc != nil {
		return m.updateFunc(id, input)
	}
	return &model.NewsItem{}, nil
}

func (m *mockNewsService) Delete(id string) (int, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(id)
	}
	return 1, nil
}

func (m *mockNewsService) AddView(id string) (int, error) {
	if m.addViewFunc != nil {
		return m.addViewFunc(id)
	}
	return 1, nil
}

func (m *mockNewsService) AddLike(id, op string) (int, error) {
	if m.addLikeFunc != nil {
		return m.addLikeFunc(id, op)
	}
	return 1, nil
}

func (m *mockNewsService) AddComment(id string) (int, error) {
	if m.addCommentFunc != nil {
		return m.addCommentFunc(id)
	}
	return 1, nil
}

func (m *mockNewsService) Import() ([]model.NewsItem, error) {
	if m.importFunc != nil {
		return m.importFunc()
	}
	return []model.NewsItem{}, nil
}

// mockDraftService 用函数字段模拟草稿服务。
type mockDraftService struct {
	generateFunc func(ctx context.Context, input draft.GenerateInput) (*model.Draft, error)
	listFunc     func() ([]model.Draft, error)
	getFunc      func(id string) (*model.Draft, error)
	editFunc     func(id string, input draft.EditInput) (*model.Draft, error)
	deleteFunc   func(id string) error
	publishFunc  func(id string) (*model.NewsItem, error)
}

func (m *mockDraftService) Generate(ctx context.Context, input draft.GenerateInput) (*model.Draft, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, input)
	}
	return &model.Draft{}, nil
}

func (m *mockDraftService) List() ([]model.Draft, error) {
	if m.listFunc != nil {
		return m.listFunc()
	}
	return []model.Draft{}, nil
}

func (m *mockDraftService) Get(id string) (*model.Draft, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return nil, model.NewDraftNotFoundError(id)
}

func (m *mockDraftService) Edit(id string, input draft.EditInput) (*model.Draft, error) {
	if m.editFunc != nil {
		return m.editFunc(id, input)
	}
	return &model.Draft{}, nil
}

func (m *mockDraftService) Delete(id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(id)
	}
	return nil
}

func (m *mockDraftService) Publish(id string) (*model.NewsItem, error) {
	if m.publishFunc != nil {
		return m.publishFunc(id)
	}
	return &model.NewsItem{}, nil
}

// mockWorldService 用函数字段模拟世界观服务。
type mockWorldService struct {
	getFunc func() (model.WorldSetting, error)
	putFunc func(ws model.WorldSetting) (model.WorldSetting, error)
}

func (m *mockWorldService) Get() (model.WorldSetting, error) {
	if m.getFunc != nil {
		return m.getFunc()
	}
	return model.DefaultWorldSetting(), nil
}

func (m *mockWorldService) Put(ws model.WorldSetting) (model.WorldSetting, error) {
	if m.putFunc != nil {
		return m.putFunc(ws)
	}
	return ws, nil
}

// mockStatsService 用函数字段模拟统计服务。
type mockStatsService struct {
	overviewFunc       func() news.Overview
	categoryStatsFunc  func() []news.CategoryStat
	categoryDetailFunc func(tag string) news.CategoryDetail
}

func (m *mockStatsService) Overview() news.Overview {
	if m.overviewFunc != nil {
		return m.overviewFunc()
	}
	return news.Overview{}
}

func (m *mockStatsService) CategoryStats() []news.CategoryStat {
	if m.categoryStatsFunc != nil {
		return m.categoryStatsFunc()
	}
	return []news.CategoryStat{}
}

func (m *mockStatsService) CategoryDetail(tag string) news.CategoryDetail {
	if m.categoryDetailFunc != nil {
		return m.categoryDetailFunc(tag)
	}
	return news.CategoryDetail{}
}

// mockKeyTester 用函数字段模拟 API Key 校验。
type mockKeyTester struct {
	testKeyFunc func(ctx context.Context, apiKey, baseURL string) error
}

func (m *mockKeyTester) TestKey(ctx context.Context, apiKey, baseURL string) error {
	if m.testKeyFunc != nil {
		return m.testKeyFunc(ctx, apiKey, baseURL)
	}
	return nil
}

// --- 测试辅助 ---

// testServices 汇总一套路由测试用的模拟服务。
type testServices struct {
	news   *mockNewsService
	drafts *mockDraftService
	world  *mockWorldService
	stats  *mockStatsService
	tester *mockKeyTester
}

// newTestRouter 用模拟服务组装路由器。
func newTestRouter(t *testing.T, svc *testServices) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	deps := &RouterDeps{
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		CORSAllowedOrigin: "*",
		RateLimiter:       rl,
		NewsService:       svc.news,
		DraftService:      svc.drafts,
		WorldService:      svc.world,
		StatsService:      svc.stats,
	}
	if svc.tester != nil {
		deps.KeyTester = svc.tester
	}

	return NewRouter(deps)
}

// defaultServices 返回全部使用缺省行为的模拟服务。
func defaultServices() *testServices {
	return &testServices{
		news:   &mockNewsService{},
		drafts: &mockDraftService{},
		world:  &mockWorldService{},
		stats:  &mockStatsService{},
		tester: &mockKeyTester{},
	}
}

// jsonBody 把任意值编码为请求体。
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

// decodeBody 把响应体解码到 out。
func decodeBody(t *testing.T, body *bytes.Buffer, out any) {
	t.Helper()
	if err := json.Unmarshal(body.Bytes(), out); err != nil {
		t.Fatalf("response is not JSON: %v (body=%s)", err, body.String())
	}
}
