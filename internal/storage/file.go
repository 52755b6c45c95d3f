package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore 是 Store 的文件系统实现。
// 集合文件存放于 dataDir（如 news.json、drafts.json、worldsetting.json），
// 文档存放于 newslogDir，一级子目录视为命名分区。
type FileStore struct {
	dataDir    string
	newslogDir string
	logger     *slog.Logger
}

// NewFileStore 生成 FileStore。logger 为 nil 时使用全局缺省 logger。
func NewFileStore(dataDir, newslogDir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dataDir:    dataDir,
		newslogDir: newslogDir,
		logger:     logger,
	}
}

// Partitions 返回 newslog 下的全部子目录名，按字典序排序。
func (s *FileStore) Partitions() ([]string, error) {
	entries, err := os.ReadDir(s.newslogDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read newslog dir: %w", err)
	}

	var partitions []string
	for _, e := range entries {
		if e.IsDir() {
			partitions = append(partitions, e.Name())
		}
	}
	sort.Strings(partitions)
	return partitions, nil
}

// ListDocuments 枚举指定分区内的 JSON 文档，按文件名排序。
// 单个文件读取失败时记录日志并跳过，不中断整个枚举。
func (s *FileStore) ListDocuments(partition string) ([]Document, error) {
	dir := s.newslogDir
	if partition != "" {
		dir = filepath.Join(s.newslogDir, partition)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read partition %q: %w", partition, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		if err != nil {
			s.logger.Warn("文档 stat 失败，跳过",
				slog.String("file", full),
				slog.String("error", err.Error()),
			)
			continue
		}
		raw, err := os.ReadFile(full)
		if err != nil {
			s.logger.Warn("文档读取失败，跳过",
				slog.String("file", full),
				slog.String("error", err.Error()),
			)
			continue
		}
		docs = append(docs, Document{
			Raw:       raw,
			Filename:  name,
			Partition: partition,
			ModTime:   info.ModTime(),
		})
	}
	return docs, nil
}

// WriteDocument 将 v 序列化为带缩进的 JSON 并写入文档文件。
func (s *FileStore) WriteDocument(partition, filename string, v any) error {
	dir := s.newslogDir
	if partition != "" {
		dir = filepath.Join(s.newslogDir, partition)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create partition dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %q: %w", filename, err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write document %q: %w", filename, err)
	}
	return nil
}

// ReadCollection 读取集合文件。文件缺失返回 (false, nil)，
// 内容损坏时记录日志并按空集合处理（返回 (false, nil)）。
func (s *FileStore) ReadCollection(name string, out any) (bool, error) {
	full := filepath.Join(s.dataDir, name)
	raw, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read collection %q: %w", name, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("集合文件内容损坏，按空集合处理",
			slog.String("file", full),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	return true, nil
}

// WriteCollection 将 v 序列化为带缩进的 JSON 并整体覆盖写入集合文件。
func (s *FileStore) WriteCollection(name string, v any) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection %q: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, name), data, 0o644); err != nil {
		return fmt.Errorf("write collection %q: %w", name, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
