package docstore

import (
	"context"
	"fmt"
	"os"

	"go-medical-site/internal/fetch"
	"go-medical-site/internal/seed"
)

// AssetSource 提供内置 JSON 资源的原始字节（远程或本地）。
type AssetSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// HTTPAsset 通过带重试的 HTTP 客户端读取资源。
type HTTPAsset struct {
	Client *fetch.Client
	URL    string
}

func (a HTTPAsset) Fetch(ctx context.Context) ([]byte, error) {
	if a.Client == nil {
		return nil, fmt.Errorf("http asset %s: nil client", a.URL)
	}
	return a.Client.GetBytes(ctx, a.URL)
}

func (a HTTPAsset) String() string { return a.URL }

// FileAsset 从本地文件读取资源（服务端预渲染或离线部署）。
type FileAsset struct {
	Path string
}

func (a FileAsset) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", a.Path, err)
	}
	return b, nil
}

func (a FileAsset) String() string { return "file:" + a.Path }

// EmbeddedAsset 返回随二进制打包的 default-data.json。
type EmbeddedAsset struct{}

func (EmbeddedAsset) Fetch(context.Context) ([]byte, error) { return seed.BundledJSON(), nil }

func (EmbeddedAsset) String() string { return "embedded:" + seed.AssetPath }
