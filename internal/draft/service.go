// Package draft 提供草稿的生成、编辑与发布。
// 草稿只存在于集合存储中，发布成功后从草稿集合移除。
package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kgwater/vf-news/internal/ai"
	"github.com/kgwater/vf-news/internal/metrics"
	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/news"
	"github.com/kgwater/vf-news/internal/policy"
	"github.com/kgwater/vf-news/internal/storage"
	"github.com/kgwater/vf-news/internal/world"
)

// CollectionFile 是草稿集合的文件名。
const CollectionFile = "drafts.json"

// draftCollection 是草稿集合文件的信封结构。
type draftCollection struct {
	Items []model.Draft `json:"items"`
}

// WorldProvider 提供当前世界观设定。
type WorldProvider interface {
	Get() (model.WorldSetting, error)
}

// NewsPublisher 将成稿写入新闻存储。
type NewsPublisher interface {
	Publish(item model.NewsItem) error
}

// Service 提供草稿的生命周期操作。
type Service struct {
	store     storage.Store
	filter    policy.Filter
	generator ai.Generator // nil 表示生成能力未配置
	world     WorldProvider
	publisher NewsPublisher
	metrics   metrics.Recorder
	logger    *slog.Logger
	mu        sync.Mutex
}

// NewService 生成 Service 实例。generator 传 nil 时生成接口返回不可用错误。
func NewService(
	store storage.Store,
	filter policy.Filter,
	generator ai.Generator,
	worldProvider WorldProvider,
	publisher NewsPublisher,
	rec metrics.Recorder,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		filter:    filter,
		generator: generator,
		world:     worldProvider,
		publisher: publisher,
		metrics:   rec,
		logger:    logger,
	}
}

// GenerateInput 是生成草稿的输入。WorldOverride 仅作用于本次生成。
type GenerateInput struct {
	APIKey        string
	BaseURL       string
	Model         string
	Category      string
	TitleHint     string
	Tone          string
	Length        int
	Temperature   float64
	WorldOverride *model.WorldSetting
}

// Generate 调用外部模型生成一篇草稿并保存。
// 生成内容须先通过合规检查；检查失败时不保存任何数据。
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*model.Draft, error) {
	if s.generator == nil {
		return nil, model.NewGenerationUnavailableError()
	}
	if input.APIKey == "" {
		return nil, model.NewValidationError("apiKey 为必填字段")
	}

	base, err := s.world.Get()
	if err != nil {
		return nil, err
	}
	merged := world.Merge(base, input.WorldOverride)

	generated, err := s.generator.Generate(ctx, ai.GenerateParams{
		APIKey:      input.APIKey,
		BaseURL:     input.BaseURL,
		Model:       input.Model,
		Category:    input.Category,
		TitleHint:   input.TitleHint,
		Tone:        input.Tone,
		Length:      input.Length,
		Temperature: input.Temperature,
		World:       merged,
	})
	if err != nil {
		s.metrics.RecordGenerationFailure()
		return nil, err
	}
	s.metrics.RecordGenerationSuccess()

	if violated, reason := s.filter.Violates(generated.Title + "\n" + generated.Content); violated {
		s.metrics.RecordPolicyBlock("generate")
		s.logger.Info("生成内容被合规拦截", slog.String("reason", reason))
		return nil, model.NewPolicyViolationError(reason)
	}

	category := input.Category
	if category == "" {
		category = "general"
	}
	draft := model.Draft{
		ID:        news.NewID("d"),
		Title:     generated.Title,
		Content:   generated.Content,
		Category:  category,
		CreatedAt: time.Now().UnixMilli(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var col draftCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}
	col.Items = append([]model.Draft{draft}, col.Items...)
	if err := s.writeCollection(&col); err != nil {
		return nil, err
	}

	s.logger.Info("草稿已生成", slog.String("draft_id", draft.ID))
	return &draft, nil
}

// List 返回全部草稿。
func (s *Service) List() ([]model.Draft, error) {
	var col draftCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}
	if col.Items == nil {
		col.Items = []model.Draft{}
	}
	return col.Items, nil
}

// Get 返回指定ID的草稿。
func (s *Service) Get(id string) (*model.Draft, error) {
	var col draftCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}
	for _, d := range col.Items {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, model.NewDraftNotFoundError(id)
}

// EditInput 是草稿部分更新的输入。nil 字段保持原值。
type EditInput struct {
	Title    *string
	Content  *string
	Category *string
}

// Edit 对指定草稿做部分更新。
// 标题或正文变化时重新做合规检查；检查失败时整次更新不生效。
func (s *Service) Edit(id string, input EditInput) (*model.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col draftCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}

	idx := -1
	for i := range col.Items {
		if col.Items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.NewDraftNotFoundError(id)
	}

	updated := col.Items[idx]
	textChanged := false
	if input.Title != nil {
		updated.Title = *input.Title
		textChanged = true
	}
	if input.Content != nil {
		updated.Content = *input.Content
		textChanged = true
	}
	if input.Category != nil {
		updated.Category = *input.Category
	}

	if textChanged {
		if violated, reason := s.filter.Violates(updated.Title + "\n" + updated.Content); violated {
			s.metrics.RecordPolicyBlock("edit")
			return nil, model.NewPolicyViolationError(reason)
		}
	}

	col.Items[idx] = updated
	if err := s.writeCollection(&col); err != nil {
		return nil, err
	}

	s.logger.Info("草稿已更新", slog.String("draft_id", id))
	return &updated, nil
}

// Delete 从草稿集合中移除指定草稿。
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col draftCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return model.NewStorageWriteError(CollectionFile)
	}

	kept := col.Items[:0]
	removed := 0
	for _, d := range col.Items {
		if d.ID == id {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	if removed == 0 {
		return model.NewDraftNotFoundError(id)
	}

	col.Items = kept
	if err := s.writeCollection(&col); err != nil {
		return err
	}

	s.logger.Info("草稿已删除", slog.String("draft_id", id))
	return nil
}

// Publish 将草稿转为已发布新闻。
// 顺序：合规检查 → 新闻主写入 → 草稿移除。主写入失败时草稿原样保留，
// 可在故障排除后重新发布。
func (s *Service) Publish(id string) (*model.NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col draftCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}

	idx := -1
	for i := range col.Items {
		if col.Items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, model.NewDraftNotFoundError(id)
	}
	draft := col.Items[idx]

	if violated, reason := s.filter.Violates(draft.Title + "\n" + draft.Content); violated {
		s.metrics.RecordPolicyBlock("publish")
		return nil, model.NewPolicyViolationError(reason)
	}

	tags := []string{}
	if draft.Category != "" {
		tags = append(tags, draft.Category)
	}
	item := model.NewsItem{
		ID:        news.NewID("n"),
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      tags,
		CreatedAt: time.Now().UnixMilli(),
		Author:    model.DefaultAuthor,
	}

	if err := s.publisher.Publish(item); err != nil {
		return nil, err
	}

	col.Items = append(col.Items[:idx], col.Items[idx+1:]...)
	if err := s.writeCollection(&col); err != nil {
		// 新闻已写入，草稿移除失败只记录，避免回滚已发布内容
		s.logger.Error("发布后的草稿移除失败",
			slog.String("draft_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("草稿已发布",
		slog.String("draft_id", id),
		slog.String("news_id", item.ID),
	)
	item.Hot = 0
	return &item, nil
}

// writeCollection 覆盖写入草稿集合，失败时记录指标并转换为既定错误。
func (s *Service) writeCollection(col *draftCollection) error {
	if err := s.store.WriteCollection(CollectionFile, col); err != nil {
		s.metrics.RecordStorageWriteFailure(CollectionFile)
		s.logger.Error("草稿集合写入失败", slog.String("error", err.Error()))
		return model.NewStorageWriteError(CollectionFile)
	}
	return nil
}
