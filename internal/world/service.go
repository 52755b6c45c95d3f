// Package world 提供世界观设定的读取与替换。
// 设定整体读取、整体替换，不支持部分更新。
package world

import (
	"log/slog"
	"sync"

	"github.com/kgwater/vf-news/internal/model"
	"github.com/kgwater/vf-news/internal/storage"
)

// CollectionFile 是世界观设定的集合文件名。
const CollectionFile = "worldsetting.json"

// Service 提供世界观设定的持久化操作。
type Service struct {
	store  storage.Store
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService 生成 Service 实例。
func NewService(store storage.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Get 返回当前世界观设定。
// 文件缺失时写入并返回缺省设定，保证后续读取稳定。
func (s *Service) Get() (model.WorldSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ws model.WorldSetting
	found, err := s.store.ReadCollection(CollectionFile, &ws)
	if err != nil {
		return model.WorldSetting{}, model.NewStorageWriteError(CollectionFile)
	}
	if !found {
		ws = model.DefaultWorldSetting()
		if err := s.store.WriteCollection(CollectionFile, &ws); err != nil {
			s.logger.Warn("缺省世界观写入失败", slog.String("error", err.Error()))
		}
	}
	return ws, nil
}

// Put 整体替换世界观设定。请求体原样落盘，不做字段级校验。
func (s *Service) Put(ws model.WorldSetting) (model.WorldSetting, error) {
	if ws.Rules == nil {
		ws.Rules = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.WriteCollection(CollectionFile, &ws); err != nil {
		s.logger.Error("世界观写入失败", slog.String("error", err.Error()))
		return model.WorldSetting{}, model.NewStorageWriteError(CollectionFile)
	}

	s.logger.Info("世界观已更新", slog.String("world_name", ws.WorldName))
	return ws, nil
}

// Merge 返回以 base 为底、override 非零字段覆盖后的临时设定。
// 仅用于单次生成请求，不写入存储。override 为 nil 时原样返回 base。
func Merge(base model.WorldSetting, override *model.WorldSetting) model.WorldSetting {
	if override == nil {
		return base
	}
	merged := base
	if override.WorldName != "" {
		merged.WorldName = override.WorldName
	}
	if override.Description != "" {
		merged.Description = override.Description
	}
	if len(override.Rules) > 0 {
		merged.Rules = override.Rules
	}
	return merged
}
