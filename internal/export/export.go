// 包 export 负责文档的文件级导出与导入：
// 导出为缩进 JSON（下载名 website-data.json），导入时经过与仓库相同的结构检查。
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go-medical-site/internal/docstore"
)

// DownloadName 为导出文件的默认文件名。
const DownloadName = "website-data.json"

// ToFile 将当前文档写入 path；path 为目录时写入其中的 DownloadName。
func ToFile(s *docstore.Store, path string) (string, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, DownloadName)
	}
	text, err := s.ExportText()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// FromFile 读取 path 并导入；校验失败时文档保持不变。
func FromFile(ctx context.Context, s *docstore.Store, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := s.Import(ctx, b); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return nil
}
