package news

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kgwater/vf-news/internal/storage"
)

// --- 测试用内存存储 ---

// docWrite 记录一次文档写入。
type docWrite struct {
	partition string
	filename  string
	payload   any
}

// memStore 是 storage.Store 的内存实现，供服务层测试使用。
// writeColErr / writeDocErr 用于注入写入故障。
type memStore struct {
	mu          sync.Mutex
	partitions  []string
	docs        map[string][]storage.Document // 分区名 -> 文档
	collections map[string][]byte             // 集合名 -> JSON
	docWrites   []docWrite

	writeColErr error
	writeDocErr error
}

func newMemStore() *memStore {
	return &memStore{
		docs:        make(map[string][]storage.Document),
		collections: make(map[string][]byte),
	}
}

func (m *memStore) Partitions() ([]string, error) {
	return m.partitions, nil
}

func (m *memStore) ListDocuments(partition string) ([]storage.Document, error) {
	return m.docs[partition], nil
}

func (m *memStore) WriteDocument(partition, filename string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeDocErr != nil {
		return m.writeDocErr
	}
	m.docWrites = append(m.docWrites, docWrite{partition: partition, filename: filename, payload: v})
	return nil
}

func (m *memStore) ReadCollection(name string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.collections[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *memStore) WriteCollection(name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeColErr != nil {
		return m.writeColErr
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.collections[name] = raw
	return nil
}

// seedCollection 预置一个集合文件。
func (m *memStore) seedCollection(name string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.collections[name] = raw
}

// addDoc 预置一个文档。
func (m *memStore) addDoc(partition, filename, raw string, mtime time.Time) {
	m.docs[partition] = append(m.docs[partition], storage.Document{
		Raw:       []byte(raw),
		Filename:  filename,
		Partition: partition,
		ModTime:   mtime,
	})
}

var _ storage.Store = (*memStore)(nil)

// --- 测试用指标 Recorder ---

// mockRecorder 统计各类指标调用，供服务层测试断言。
type mockRecorder struct {
	httpStatuses      []int
	generationOK      int
	generationFail    int
	policyBlocks      map[string]int
	itemsImported     int
	storageWriteFails map[string]int
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		policyBlocks:      make(map[string]int),
		storageWriteFails: make(map[string]int),
	}
}

func (m *mockRecorder) RecordHTTPStatus(code int)        { m.httpStatuses = append(m.httpStatuses, code) }
func (m *mockRecorder) RecordGenerationSuccess()         { m.generationOK++ }
func (m *mockRecorder) RecordGenerationFailure()         { m.generationFail++ }
func (m *mockRecorder) RecordPolicyBlock(stage string)   { m.policyBlocks[stage]++ }
func (m *mockRecorder) RecordItemsImported(count int)    { m.itemsImported += count }
func (m *mockRecorder) RecordStorageWriteFailure(c string) {
	m.storageWriteFails[c]++
}

// --- 测试用净化器 ---

// passthroughSanitizer 原样返回输入。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

// errWriteFailed 是注入用的写入故障。
var errWriteFailed = fmt.Errorf("disk full")
