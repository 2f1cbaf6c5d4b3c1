// 包 docstore 持有唯一的站点文档实例：
// - 启动时按 持久化副本 → 内置资源 → 种子 的顺序解析
// - Replace/Update 整体替换文档，持久化后通过广播通道发布
// - 提供重置、导出、导入与文档内唯一 ID 分配
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go-medical-site/internal/broadcast"
	"go-medical-site/internal/logx"
	"go-medical-site/internal/model"
	"go-medical-site/internal/seed"
)

// DefaultStorageKey 为持久化文档使用的固定键。
const DefaultStorageKey = "medical_website_data"

// Mode 显式声明运行上下文。
type Mode int

const (
	// ModeInteractive 可读写持久化存储并读取内置资源。
	ModeInteractive Mode = iota
	// ModeServerRender 仅使用种子文档，不触碰存储与资源。
	ModeServerRender
)

func (m Mode) String() string {
	if m == ModeServerRender {
		return "server"
	}
	return "interactive"
}

// ParseMode 解析配置中的 MODE；空值为 interactive。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "interactive", "browser":
		return ModeInteractive, nil
	case "server", "ssr", "server-render":
		return ModeServerRender, nil
	}
	return ModeInteractive, fmt.Errorf("unknown mode %q", s)
}

// Source 标记当前文档的来源。
type Source int

const (
	SourceSeed Source = iota
	SourcePersisted
	SourceAsset
	SourceEdit
)

func (s Source) String() string {
	switch s {
	case SourcePersisted:
		return "persisted"
	case SourceAsset:
		return "asset"
	case SourceEdit:
		return "edit"
	default:
		return "seed"
	}
}

// KV 为文本键值存储（对应浏览器 localStorage）。
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Options 为 Store 构造参数；交互模式下 KV 必填，Asset 为空时使用内置资源。
type Options struct {
	Mode       Mode
	KV         KV
	Asset      AssetSource
	StorageKey string
}

// Store 为文档仓库，每个进程只应构造一个并显式传递给使用方。
type Store struct {
	mode  Mode
	kv    KV
	asset AssetSource
	key   string
	ch    *broadcast.Channel[*model.WebsiteData]

	// writeMu 串行化所有写操作（读-改-写、持久化与发布）。
	writeMu sync.Mutex
	source  atomic.Int32

	idMu   sync.Mutex
	lastID int64
}

// New 创建 Store，当前值先置为种子文档，调用 Init 后才解析真实来源。
func New(opts Options) (*Store, error) {
	if opts.Mode == ModeInteractive && opts.KV == nil {
		return nil, errors.New("interactive mode requires a key-value store")
	}
	if opts.Asset == nil {
		opts.Asset = EmbeddedAsset{}
	}
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	return &Store{
		mode:  opts.Mode,
		kv:    opts.KV,
		asset: opts.Asset,
		key:   opts.StorageKey,
		ch:    broadcast.New(seed.Default()),
	}, nil
}

func (s *Store) Mode() Mode { return s.mode }

// Source 返回当前文档来源。
func (s *Store) Source() Source { return Source(s.source.Load()) }

// Init 按来源顺序解析初始文档并发布。资源读取失败不视为错误。
func (s *Store) Init(ctx context.Context) Source {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.mode == ModeServerRender {
		s.adopt(seed.Default(), SourceSeed)
		logx.Infof("服务端渲染模式：使用内置种子文档")
		return SourceSeed
	}
	if d, ok := s.loadPersisted(ctx); ok {
		s.adopt(d, SourcePersisted)
		logx.Infof("已从持久化存储加载文档：键=%s", s.key)
		return SourcePersisted
	}
	d, err := s.loadAsset(ctx)
	if err != nil {
		logx.Warnf("读取内置资源失败，回退到种子文档：来源=%s 错误=%v", s.asset, err)
		s.adopt(seed.Default(), SourceSeed)
		return SourceSeed
	}
	if err := s.persist(ctx, d); err != nil {
		logx.Warnf("写入持久化存储失败：%v", err)
	}
	s.adopt(d, SourceAsset)
	logx.Infof("已从内置资源加载文档：来源=%s", s.asset)
	return SourceAsset
}

// Current 返回当前快照，不阻塞；调用方须视为只读。
func (s *Store) Current() *model.WebsiteData { return s.ch.Latest() }

// Subscribe 订阅文档变化，立即收到当前快照。
func (s *Store) Subscribe(fn func(*model.WebsiteData)) *broadcast.Subscription {
	return s.ch.Subscribe(fn)
}

// Replace 整体替换文档：拷贝入参、持久化（交互模式）并发布。
// 持久化失败时内存文档仍已更新并发布，错误返回给调用方。
func (s *Store) Replace(ctx context.Context, doc *model.WebsiteData) error {
	if doc == nil {
		return errors.New("replace: nil document")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replaceLocked(ctx, doc.Clone())
}

// Update 在写锁内完成 读取→修改→替换，fn 收到的是可自由修改的副本。
func (s *Store) Update(ctx context.Context, fn func(d *model.WebsiteData)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	d := s.Current().Clone()
	fn(d)
	return s.replaceLocked(ctx, d)
}

// ResetToDefault 清除持久化副本并立即发布种子文档。
func (s *Store) ResetToDefault(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	var err error
	if s.mode == ModeInteractive {
		if err = s.kv.Delete(ctx, s.key); err != nil {
			err = fmt.Errorf("clear persisted document: %w", err)
		}
	}
	s.adopt(seed.Default(), SourceSeed)
	logx.Infof("文档已重置为种子默认值")
	return err
}

// ResetToDefaultFromAssets 重新读取内置资源；失败时回退到种子。无论结果都会重新发布。
func (s *Store) ResetToDefaultFromAssets(ctx context.Context) (Source, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.mode == ModeServerRender {
		s.adopt(seed.Default(), SourceSeed)
		return SourceSeed, nil
	}
	d, err := s.loadAsset(ctx)
	if err != nil {
		logx.Warnf("从内置资源重置失败，回退到种子文档：%v", err)
		derr := s.kv.Delete(ctx, s.key)
		s.adopt(seed.Default(), SourceSeed)
		return SourceSeed, derr
	}
	perr := s.persist(ctx, d)
	s.adopt(d, SourceAsset)
	logx.Infof("文档已从内置资源重置：来源=%s", s.asset)
	return SourceAsset, perr
}

// ExportText 返回当前文档的缩进 JSON 文本。
func (s *Store) ExportText() (string, error) {
	b, err := json.MarshalIndent(s.Current(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(b), nil
}

// Import 校验并整体替换文档；校验失败时文档保持不变。
func (s *Store) Import(ctx context.Context, b []byte) error {
	d, err := Decode(b)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replaceLocked(ctx, d)
}

// NextID 分配本仓库内单调递增的 ID，始终大于当前文档中的任何 ID。
func (s *Store) NextID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	id := s.lastID + 1
	if m := s.Current().MaxID() + 1; m > id {
		id = m
	}
	s.lastID = id
	return id
}

func (s *Store) replaceLocked(ctx context.Context, d *model.WebsiteData) error {
	var err error
	if s.mode == ModeInteractive {
		err = s.persist(ctx, d)
	}
	s.adopt(d, SourceEdit)
	return err
}

// adopt 设置来源并发布；调用方须持有 writeMu。
func (s *Store) adopt(d *model.WebsiteData, src Source) {
	s.source.Store(int32(src))
	s.ch.Publish(d)
}

func (s *Store) persist(ctx context.Context, d *model.WebsiteData) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

// loadPersisted 读取持久化副本；损坏或结构不完整的副本记录告警后跳过。
func (s *Store) loadPersisted(ctx context.Context) (*model.WebsiteData, bool) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		logx.Warnf("读取持久化存储失败：%v", err)
		return nil, false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, false
	}
	d, err := Decode([]byte(raw))
	if err != nil {
		logx.Warnf("持久化文档无法解析，已忽略：%v", err)
		return nil, false
	}
	return d, true
}

func (s *Store) loadAsset(ctx context.Context) (*model.WebsiteData, error) {
	b, err := s.asset.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	d, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", s.asset, err)
	}
	return d, nil
}
