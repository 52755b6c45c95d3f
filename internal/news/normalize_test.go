package news

import (
	"strings"
	"testing"
	"time"

	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/storage"
)

func docOf(raw, filename, partition string, mtime time.Time) storage.Document {
	return storage.Document{
		Raw:       []byte(raw),
		Filename:  filename,
		Partition: partition,
		ModTime:   mtime,
	}
}

// TestNormalize_FullDocument 测试字段齐全的文档被完整解析。
func TestNormalize_FullDocument(t *testing.T) {
	mtime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raw := `{
		"id": "n_1700000000000_abc12345",
		"title": "悬浮都市竣工",
		"content": "正文内容",
		"tags": ["科技", "城市"],
		"createdAt": 1700000000000,
		"views": 10,
		"likes": 2,
		"commentsCount": 1,
		"summary": "摘要",
		"author": "观察员"
	}`

	item := Normalize(docOf(raw, "a.json", "", mtime), "", nil)
	if item == nil {
		t.Fatal("Normalize returned nil for valid document")
	}
	if item.ID != "n_1700000000000_abc12345" {
		t.Errorf("ID = %q", item.ID)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "科技" {
		t.Errorf("Tags = %v", item.Tags)
	}
	if item.CreatedAt != 1700000000000 {
		t.Errorf("CreatedAt = %d", item.CreatedAt)
	}
	if item.Views != 10 || item.Likes != 2 || item.CommentsCount != 1 {
		t.Errorf("counters = %d/%d/%d", item.Views, item.Likes, item.CommentsCount)
	}
	if item.Author != "观察员" {
		t.Errorf("Author = %q", item.Author)
	}
	if item.Source != model.SourceDocument {
		t.Errorf("Source = %q, want %q", item.Source, model.SourceDocument)
	}
	if item.Filename != "a.json" {
		t.Errorf("Filename = %q", item.Filename)
	}
}

// TestNormalize_MissingRequiredFields 测试缺少 title 或 content 的文档被跳过。
func TestNormalize_MissingRequiredFields(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		raw  string
	}{
		{"missing title", `{"content":"正文"}`},
		{"missing content", `{"title":"标题"}`},
		{"invalid json", `{not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if item := Normalize(docOf(tc.raw, "x.json", "", now), "", nil); item != nil {
				t.Errorf("Normalize = %+v, want nil", item)
			}
		})
	}
}

// TestNormalize_TagPrecedence 测试标签推导的优先级：
// tags 数组 > category 字符串 > 分区标签 > 空。
func TestNormalize_TagPrecedence(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name      string
		raw       string
		partition string
		want      []string
	}{
		{"tags array wins", `{"title":"t","content":"c","tags":["a"],"category":"b"}`, "p", []string{"a"}},
		{"category next", `{"title":"t","content":"c","category":"b"}`, "p", []string{"b"}},
		{"partition fallback", `{"title":"t","content":"c"}`, "anime", []string{"anime"}},
		{"root doc empty", `{"title":"t","content":"c"}`, "", []string{}},
		{"malformed tags falls through", `{"title":"t","content":"c","tags":"oops","category":"b"}`, "", []string{"b"}},
		{"null tags falls through to category", `{"title":"t","content":"c","tags":null,"category":"科技"}`, "p", []string{"科技"}},
		{"null tags falls through to partition", `{"title":"t","content":"c","tags":null}`, "anime", []string{"anime"}},
		{"explicit empty array wins", `{"title":"t","content":"c","tags":[],"category":"b"}`, "p", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := Normalize(docOf(tc.raw, "x.json", tc.partition, now), tc.partition, nil)
			if item == nil {
				t.Fatal("Normalize returned nil")
			}
			if item.Tags == nil {
				t.Error("Tags = nil, want non-nil slice")
			}
			if len(item.Tags) != len(tc.want) {
				t.Fatalf("Tags = %v, want %v", item.Tags, tc.want)
			}
			for i := range tc.want {
				if item.Tags[i] != tc.want[i] {
					t.Errorf("Tags = %v, want %v", item.Tags, tc.want)
				}
			}
		})
	}
}

// TestNormalize_CreatedAtPrecedence 测试创建时间的推导优先级：
// 可解析的 publishTime > 正值 createdAt > 文件修改时间。
func TestNormalize_CreatedAtPrecedence(t *testing.T) {
	mtime := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	pubMillis := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	cases := []struct {
		name string
		raw  string
		want int64
	}{
		{"publishTime wins", `{"title":"t","content":"c","publishTime":"2024-05-01","createdAt":123}`, pubMillis},
		{"createdAt next", `{"title":"t","content":"c","createdAt":1690000000000}`, 1690000000000},
		{"unparseable publishTime falls back", `{"title":"t","content":"c","publishTime":"昨天","createdAt":1690000000000}`, 1690000000000},
		{"mtime last", `{"title":"t","content":"c"}`, mtime.UnixMilli()},
		{"non-positive createdAt ignored", `{"title":"t","content":"c","createdAt":-5}`, mtime.UnixMilli()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := Normalize(docOf(tc.raw, "x.json", "", mtime), "", nil)
			if item == nil {
				t.Fatal("Normalize returned nil")
			}
			if item.CreatedAt != tc.want {
				t.Errorf("CreatedAt = %d, want %d", item.CreatedAt, tc.want)
			}
		})
	}
}

// TestNormalize_CountCoercion 测试计数字段兼容数字与数字字符串，负值归零。
func TestNormalize_CountCoercion(t *testing.T) {
	now := time.Now()
	raw := `{"title":"t","content":"c","views":"42","likes":-3,"commentsCount":"oops"}`

	item := Normalize(docOf(raw, "x.json", "", now), "", nil)
	if item == nil {
		t.Fatal("Normalize returned nil")
	}
	if item.Views != 42 {
		t.Errorf("Views = %d, want 42", item.Views)
	}
	if item.Likes != 0 {
		t.Errorf("Likes = %d, want 0", item.Likes)
	}
	if item.CommentsCount != 0 {
		t.Errorf("CommentsCount = %d, want 0", item.CommentsCount)
	}
}

// TestNormalize_SynthesizedID 测试缺少ID的文档获得合成ID，且两次解析互不相同。
func TestNormalize_SynthesizedID(t *testing.T) {
	now := time.Now()
	raw := `{"title":"t","content":"c"}`

	first := Normalize(docOf(raw, "x.json", "", now), "", nil)
	second := Normalize(docOf(raw, "x.json", "", now), "", nil)
	if first == nil || second == nil {
		t.Fatal("Normalize returned nil")
	}
	if !strings.HasPrefix(first.ID, "json_") {
		t.Errorf("ID = %q, want json_ prefix", first.ID)
	}
	if first.ID == second.ID {
		t.Errorf("two normalizations produced identical ID %q", first.ID)
	}
}

// TestNormalize_DefaultAuthor 测试作者缺省值。
func TestNormalize_DefaultAuthor(t *testing.T) {
	item := Normalize(docOf(`{"title":"t","content":"c"}`, "x.json", "", time.Now()), "", nil)
	if item == nil {
		t.Fatal("Normalize returned nil")
	}
	if item.Author != model.DefaultAuthor {
		t.Errorf("Author = %q, want %q", item.Author, model.DefaultAuthor)
	}
}
