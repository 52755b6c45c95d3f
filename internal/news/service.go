package news

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kgwater/vf-news/internal/metrics"
	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/policy"
	"github.com/kgwater/vf-news/internal/security"
	"github.com/kgwater/vf-news/internal/storage"
)

// Service 提供新闻的查询与管理操作。
// 集合文件整体读取、整体覆盖写入，mu 保证进程内同一时刻只有一个写入者。
type Service struct {
	store     storage.Store
	agg       *Aggregator
	filter    policy.Filter
	sanitizer security.SanitizerService
	metrics   metrics.Recorder
	logger    *slog.Logger
	mu        sync.Mutex
}

// NewService 生成 Service 实例。
func NewService(
	store storage.Store,
	filter policy.Filter,
	sanitizer security.SanitizerService,
	rec metrics.Recorder,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		agg:       NewAggregator(store, logger),
		filter:    filter,
		sanitizer: sanitizer,
		metrics:   rec,
		logger:    logger,
	}
}

// List 返回合并视图经过过滤、排序、分页后的当前页与过滤后总数。
func (s *Service) List(opts RankOptions) ([]model.NewsItem, int) {
	return Rank(s.agg.ListAll(), opts)
}

// Tags 返回合并视图中的标签及其出现次数。
func (s *Service) Tags() []model.TagCount {
	return TagCounts(s.agg.ListAll())
}

// Overview 返回全量条目的总体统计。
func (s *Service) Overview() Overview {
	return BuildOverview(s.agg.ListAll())
}

// CategoryStats 返回按标签聚合的分类统计。
func (s *Service) CategoryStats() []CategoryStat {
	return BuildCategoryStats(s.agg.ListAll())
}

// CategoryDetail 返回单个分类的详细统计。
func (s *Service) CategoryDetail(tag string) CategoryDetail {
	return BuildCategoryDetail(s.agg.ListAll(), tag)
}

// Get 返回集合存储中指定ID的条目。
// 单条查询只解析集合来源，文档来源的条目需先导入。
func (s *Service) Get(id string) (*model.NewsItem, error) {
	var col newsCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}
	for _, item := range col.Items {
		if item.ID == id {
			item.Hot = HotScore(item.Views, item.Likes, item.CommentsCount)
			item.Source = model.SourceRecord
			return &item, nil
		}
	}
	return nil, model.NewNewsNotFoundError(id)
}

// CreateInput 是手动创建新闻的输入。
type CreateInput struct {
	Title    string
	Content  string
	Tags     []string
	Summary  string
	Image    string
	ImageAlt string
	Author   string
}

// Create 校验并净化输入后，将新条目插入集合头部。
// 合规检查失败时不写入任何数据。
func (s *Service) Create(input CreateInput) (*model.NewsItem, error) {
	if input.Title == "" {
		return nil, model.NewValidationError("title 为必填字段")
	}
	if input.Content == "" {
		return nil, model.NewValidationError("content 为必填字段")
	}

	if violated, reason := s.filter.Violates(input.Title + "\n" + input.Content); violated {
		s.metrics.RecordPolicyBlock("create")
		return nil, model.NewPolicyViolationError(reason)
	}

	author := input.Author
	if author == "" {
		author = model.DefaultAuthor
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	item := model.NewsItem{
		ID:        NewID("n"),
		Title:     s.sanitizer.Sanitize(input.Title),
		Content:   s.sanitizer.Sanitize(input.Content),
		Tags:      tags,
		CreatedAt: time.Now().UnixMilli(),
		Summary:   s.sanitizer.Sanitize(input.Summary),
		Image:     input.Image,
		ImageAlt:  input.ImageAlt,
		Author:    author,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var col newsCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}
	col.Items = append([]model.NewsItem{item}, col.Items...)
	if err := s.writeCollection(&col); err != nil {
		return nil, err
	}

	s.logger.Info("新闻已创建", slog.String("news_id", item.ID))
	return &item, nil
}

// UpdateInput 是部分更新的输入。nil 字段保持原值。
type UpdateInput struct {
	Title    *string
	Content  *string
	Tags     []string
	Summary  *string
	Image    *string
	ImageAlt *string
	Author   *string
}

// Update 对集合存储中的指定条目做部分更新。
// 标题或正文变化时重新做合规检查；检查失败时整次更新不生效。
func (s *Service) Update(id string, input UpdateInput) (*model.NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col newsCollection
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
		return nil, model.NewNewsNotFoundError(id)
	}

	updated := col.Items[idx]
	textChanged := false
	if input.Title != nil {
		updated.Title = s.sanitizer.Sanitize(*input.Title)
		textChanged = true
	}
	if input.Content != nil {
		updated.Content = s.sanitizer.Sanitize(*input.Content)
		textChanged = true
	}
	if input.Tags != nil {
		updated.Tags = input.Tags
	}
	if input.Summary != nil {
		updated.Summary = s.sanitizer.Sanitize(*input.Summary)
	}
	if input.Image != nil {
		updated.Image = *input.Image
	}
	if input.ImageAlt != nil {
		updated.ImageAlt = *input.ImageAlt
	}
	if input.Author != nil {
		updated.Author = *input.Author
	}

	if textChanged {
		if violated, reason := s.filter.Violates(updated.Title + "\n" + updated.Content); violated {
			s.metrics.RecordPolicyBlock("update")
			return nil, model.NewPolicyViolationError(reason)
		}
	}

	col.Items[idx] = updated
	if err := s.writeCollection(&col); err != nil {
		return nil, err
	}

	updated.Hot = HotScore(updated.Views, updated.Likes, updated.CommentsCount)
	s.logger.Info("新闻已更新", slog.String("news_id", id))
	return &updated, nil
}

// Delete 从集合存储中移除指定条目，返回移除的条数。
// 文档来源的条目不受影响，再次聚合时仍会出现。
func (s *Service) Delete(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col newsCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return 0, model.NewStorageWriteError(CollectionFile)
	}

	kept := col.Items[:0]
	removed := 0
	for _, item := range col.Items {
		if item.ID == id {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return 0, model.NewNewsNotFoundError(id)
	}

	col.Items = kept
	if err := s.writeCollection(&col); err != nil {
		return 0, err
	}

	s.logger.Info("新闻已删除", slog.String("news_id", id))
	return removed, nil
}

// AddView 使指定条目的浏览数加1，返回新的浏览数。
func (s *Service) AddView(id string) (int, error) {
	var views int
	err := s.mutateItem(id, func(item *model.NewsItem) {
		item.Views++
		views = item.Views
	})
	return views, err
}

// AddLike 调整指定条目的点赞数。op 为 "dec" 时减1（不低于0），否则加1。
func (s *Service) AddLike(id, op string) (int, error) {
	var likes int
	err := s.mutateItem(id, func(item *model.NewsItem) {
		if op == "dec" {
			if item.Likes > 0 {
				item.Likes--
			}
		} else {
			item.Likes++
		}
		likes = item.Likes
	})
	return likes, err
}

// AddComment 使指定条目的评论数加1，返回新的评论数。
func (s *Service) AddComment(id string) (int, error) {
	var comments int
	err := s.mutateItem(id, func(item *model.NewsItem) {
		item.CommentsCount++
		comments = item.CommentsCount
	})
	return comments, err
}

// mutateItem 对集合中指定条目执行就地修改并整体回写。
// 计数操作只作用于集合来源，文档来源的条目视为未找到。
func (s *Service) mutateItem(id string, mutate func(*model.NewsItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col newsCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return model.NewStorageWriteError(CollectionFile)
	}

	for i := range col.Items {
		if col.Items[i].ID == id {
			mutate(&col.Items[i])
			return s.writeCollection(&col)
		}
	}
	return model.NewNewsNotFoundError(id)
}

// Import 将根分区的全部文档逐条插入集合头部并一次性写入。
// 不做去重：重复导入会产生内容相同、ID不同的条目，由聚合层的
// 先见者胜规则兜底展示。返回本次导入的条目。
func (s *Service) Import() ([]model.NewsItem, error) {
	docs, err := s.store.ListDocuments("")
	if err != nil {
		return nil, model.NewStorageWriteError("newslog")
	}

	imported := make([]model.NewsItem, 0, len(docs))
	s.mu.Lock()
	defer s.mu.Unlock()

	var col newsCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return nil, model.NewStorageWriteError(CollectionFile)
	}

	// 按文件序逐条前插，集合头部最终为反序。与既有数据的布局保持一致。
	for _, doc := range docs {
		item := Normalize(doc, "", s.logger)
		if item == nil {
			continue
		}
		item.Source = model.SourceRecord
		item.Filename = ""
		col.Items = append([]model.NewsItem{*item}, col.Items...)
		imported = append(imported, *item)
	}

	if len(imported) > 0 {
		if err := s.writeCollection(&col); err != nil {
			return nil, err
		}
	}

	s.metrics.RecordItemsImported(len(imported))
	s.logger.Info("文档导入完成", slog.Int("imported", len(imported)))
	return imported, nil
}

// Publish 将一条已成型的新闻写入集合存储，并尽力镜像到文档目录。
// 集合写入是主写入，失败时整个操作失败；镜像写入失败只记录日志。
func (s *Service) Publish(item model.NewsItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col newsCollection
	if _, err := s.store.ReadCollection(CollectionFile, &col); err != nil {
		return model.NewStorageWriteError(CollectionFile)
	}
	col.Items = append([]model.NewsItem{item}, col.Items...)
	if err := s.writeCollection(&col); err != nil {
		return err
	}

	filename := safeDocumentFilename(item.ID, item.Title)
	if err := s.store.WriteDocument("", filename, item); err != nil {
		s.logger.Warn("镜像写入失败，条目仅存在于集合存储",
			slog.String("news_id", item.ID),
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("新闻已发布", slog.String("news_id", item.ID))
	return nil
}

// writeCollection 覆盖写入集合文件，失败时记录指标并转换为既定错误。
func (s *Service) writeCollection(col *newsCollection) error {
	if err := s.store.WriteCollection(CollectionFile, col); err != nil {
		s.metrics.RecordStorageWriteFailure(CollectionFile)
		s.logger.Error("集合写入失败", slog.String("error", err.Error()))
		return model.NewStorageWriteError(CollectionFile)
	}
	return nil
}
