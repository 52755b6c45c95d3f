// Package storage 定义外部状态的持久化接口。
// 外部状态有两类：newslog 文档目录（可含命名分区子目录）与 data 目录下的
// 整体读写的集合文件。
package storage

import "time"

// Document 表示文档目录中的一个原始文档。
// 内容解析交由上层的归一化逻辑处理，本层只负责枚举与读取。
type Document struct {
	Raw       []byte    // 原始字节，未解析
	Filename  string    // 不含目录的文件名
	Partition string    // 所属分区名，根分区为空串
	ModTime   time.Time // 文件修改时间，作为 createdAt 的回退来源
}

// Store 是存储适配层的接口。
// 失败策略：目录或文件缺失一律返回空结果而非错误；
// 文档内容是否合法由归一化层判断，本层不做校验。
type Store interface {
	// Partitions 返回全部命名分区（子目录名），按字典序排序。
	// 不包含根分区。目录缺失时返回空切片。
	Partitions() ([]string, error)

	// ListDocuments 枚举指定分区内的 JSON 文档，按文件名排序。
	// partition 为空串表示根分区。分区缺失时返回空切片。
	ListDocuments(partition string) ([]Document, error)

	// WriteDocument 将 v 序列化为 JSON 并写入指定分区的文档文件。
	// 分区目录不存在时自动创建。
	WriteDocument(partition, filename string, v any) error

	// ReadCollection 读取集合文件并反序列化到 out。
	// 返回值表示文件是否存在；文件缺失或内容损坏时 out 保持零值。
	ReadCollection(name string, out any) (bool, error)

	// WriteCollection 将 v 序列化为 JSON 并整体覆盖写入集合文件。
	WriteCollection(name string, v any) error
}
