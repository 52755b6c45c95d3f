package news

import (
	"strings"
	"testing"
	"time"
)

// TestFlatten_MovesPartitionDocsToRoot 测试命名分区文档被归一化后写入根分区。
func TestFlatten_MovesPartitionDocsToRoot(t *testing.T) {
	now := time.Now()
	store := newMemStore()
	store.partitions = []string{"anime", "novel"}
	store.addDoc("anime", "a.json", `{"id":"a1","title":"动画新闻","content":"c"}`, now)
	store.addDoc("novel", "b.json", `{"id":"b1","title":"小说 新闻/续","content":"c"}`, now)
	// 根分区文档不参与搬运
	store.addDoc("", "root.json", `{"id":"r1","title":"根","content":"c"}`, now)

	moved, err := Flatten(store, nil)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}
	if len(store.docWrites) != 2 {
		t.Fatalf("doc writes = %d, want 2", len(store.docWrites))
	}
	for _, w := range store.docWrites {
		if w.partition != "" {
			t.Errorf("write partition = %q, want root", w.partition)
		}
		if strings.ContainsAny(w.filename, " /") {
			t.Errorf("filename %q contains unsafe characters", w.filename)
		}
	}
}

// TestFlatten_SkipsInvalidDocuments 测试非法文档被跳过且不中断搬运。
func TestFlatten_SkipsInvalidDocuments(t *testing.T) {
	store := newMemStore()
	store.partitions = []string{"anime"}
	store.addDoc("anime", "bad.json", `{broken`, time.Now())
	store.addDoc("anime", "good.json", `{"id":"g","title":"t","content":"c"}`, time.Now())

	moved, err := Flatten(store, nil)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
}

// TestSafeDocumentFilename 测试文件名合成的替换与截断。
func TestSafeDocumentFilename(t *testing.T) {
	name := safeDocumentFilename("n_1_x", `危险\名称:带*问号?和 空格`)
	if strings.ContainsAny(name, `\/:*?"<>| `) {
		t.Errorf("filename %q contains unsafe characters", name)
	}
	if !strings.HasPrefix(name, "n_1_x_") || !strings.HasSuffix(name, ".json") {
		t.Errorf("filename = %q", name)
	}

	long := strings.Repeat("长", 200)
	name = safeDocumentFilename("id", long)
	if len([]rune(strings.TrimSuffix(strings.TrimPrefix(name, "id_"), ".json"))) > maxFilenameTitleLen {
		t.Errorf("title segment not truncated: %q", name)
	}
}
