package news

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/kgwater/vf-news/internal/storage"
)

// unsafeFilenameChars 匹配文件名中需要替换的字符与空白。
var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

// maxFilenameTitleLen 是文件名中标题片段的最大长度（按字节截断前先替换）。
const maxFilenameTitleLen = 60

// safeDocumentFilename 由ID与标题合成文档文件名。
// 标题中的路径分隔符、通配符与空白统一替换为连字符并截断。
func safeDocumentFilename(id, title string) string {
	safe := unsafeFilenameChars.ReplaceAllString(title, "-")
	runes := []rune(safe)
	if len(runes) > maxFilenameTitleLen {
		safe = string(runes[:maxFilenameTitleLen])
	}
	return fmt.Sprintf("%s_%s.json", id, safe)
}

// Flatten 将全部命名分区的文档归一化后搬运到根分区。
// 原分区文件保留不动，重复执行会在根分区产生新ID的副本。
// 返回成功搬运的文档数；单个文档的失败记录日志后跳过。
func Flatten(store storage.Store, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	partitions, err := store.Partitions()
	if err != nil {
		return 0, fmt.Errorf("list partitions: %w", err)
	}

	moved := 0
	for _, p := range partitions {
		docs, err := store.ListDocuments(p)
		if err != nil {
			logger.Warn("分区枚举失败，跳过该分区",
				slog.String("partition", p),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, doc := range docs {
			item := Normalize(doc, p, logger)
			if item == nil {
				continue
			}
			item.Filename = ""
			filename := safeDocumentFilename(item.ID, item.Title)
			if err := store.WriteDocument("", filename, item); err != nil {
				logger.Warn("文档写入失败，跳过该文档",
					slog.String("partition", p),
					slog.String("filename", doc.Filename),
					slog.String("error", err.Error()),
				)
				continue
			}
			moved++
		}
	}

	logger.Info("分区文档搬运完成", slog.Int("moved", moved))
	return moved, nil
}
