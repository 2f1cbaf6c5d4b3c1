// 命令行入口：
// - 解析 flags 与 settings.yaml/rules.yaml
// - 初始化日志、HTTP 客户端、SQLite 存储与文档仓库
// - 支持导入/导出/重置/博客同步等一次性命令，或启动站点服务（-serve）
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-medical-site/internal/admin"
	"go-medical-site/internal/blogsync"
	"go-medical-site/internal/config"
	"go-medical-site/internal/content"
	"go-medical-site/internal/docstore"
	"go-medical-site/internal/export"
	"go-medical-site/internal/fetch"
	"go-medical-site/internal/logx"
	"go-medical-site/internal/rules"
	"go-medical-site/internal/store"
	"go-medical-site/internal/web"
)

func main() {
	var (
		configPath  = flag.String("config", "settings.yaml", "path to settings.yaml")
		exportPath  = flag.String("export", "", "write the current document to this path (file or directory); with -serve, on shutdown")
		importPath  = flag.String("import", "", "replace the document with this JSON file and exit")
		reset       = flag.Bool("reset", false, "reset the document to the built-in seed and exit")
		resetAssets = flag.Bool("reset-assets", false, "reset the document from the configured asset and exit")
		syncBlogs   = flag.Bool("sync", false, "sync blogs from BLOG_FEEDS/BLOG_PAGES and exit")
		serve       = flag.Bool("serve", false, "start the website server")
	)
	flag.Parse()

	// 1) 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	// 2) 初始化日志：级别/格式/语言/颜色
	logx.Init(logx.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Locale: cfg.LogLocale, Color: cfg.LogColor})

	mode, err := docstore.ParseMode(cfg.Mode)
	if err != nil {
		log.Fatalf("mode: %v", err)
	}

	// 3) 初始化 HTTP 客户端（含代理与重试）
	cl, err := fetch.New(fetch.Options{
		ProxyHTTP:  cfg.Proxy.HTTP,
		ProxyHTTPS: cfg.Proxy.HTTPS,
		Timeout:    25 * time.Second,
		Retry:      cfg.Concurrency.Retry,
	})
	if err != nil {
		log.Fatalf("http client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4) 存储：服务端渲染模式不打开数据库
	opts := docstore.Options{Mode: mode, StorageKey: cfg.StorageKey, Asset: assetOf(cfg, cl)}
	if mode == docstore.ModeInteractive {
		st, err := store.OpenSQLite(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer st.Close()
		if cfg.ResetOnStart {
			if err := st.Reset(ctx); err != nil {
				logx.Warnf("启动清理数据库失败：%v", err)
			} else {
				logx.Infof("已清理已保存的文档")
			}
		}
		if at, ok, err := st.UpdatedAt(ctx, cfg.StorageKey); err == nil && ok {
			logx.Infof("已保存文档的最后写入时间：%s", at.Local().Format(time.DateTime))
		}
		opts.KV = st
	}

	ds, err := docstore.New(opts)
	if err != nil {
		log.Fatalf("document store: %v", err)
	}
	src := ds.Init(ctx)
	logx.Infof("文档已就绪：模式=%s 来源=%s", mode, src)
	acc := content.New(ds)

	// 5) 博客同步：rules.yaml 缺失时使用内置预设
	rl, err := rules.Load(cfg.Rules)
	if err != nil {
		logx.Warnf("加载规则失败，使用内置预设：%v", err)
		rl = rules.Default()
	}
	pages := make([]blogsync.Page, 0, len(cfg.BlogPages))
	for _, p := range cfg.BlogPages {
		pages = append(pages, blogsync.Page{URL: p.URL, Theme: p.Theme})
	}
	var syncer *blogsync.Runner
	if len(cfg.BlogFeeds)+len(pages) > 0 {
		syncer = blogsync.New(acc, cl, blogsync.Options{
			Feeds:       cfg.BlogFeeds,
			Pages:       pages,
			Rules:       rl,
			MaxBlogs:    cfg.MaxBlogs,
			Concurrency: cfg.Concurrency.Fetch,
		})
	}

	// 6) 一次性命令：服务端渲染模式不落盘，改写文档的命令直接拒绝
	if err := checkOneShot(mode, mutatingCommand(*importPath, *reset, *resetAssets, *syncBlogs)); err != nil {
		logx.Errorf("%v", err)
		os.Exit(1)
	}
	switch {
	case *importPath != "":
		if err := export.FromFile(ctx, ds, *importPath); err != nil {
			logx.Errorf("导入失败：%v", err)
			os.Exit(1)
		}
		logx.Infof("已导入 %s", *importPath)
		return
	case *reset:
		if err := ds.ResetToDefault(ctx); err != nil {
			logx.Errorf("重置失败：%v", err)
			os.Exit(1)
		}
		logx.Infof("已重置为内置默认文档")
		return
	case *resetAssets:
		src, err := ds.ResetToDefaultFromAssets(ctx)
		if err != nil {
			logx.Warnf("从资源重置未能持久化：%v", err)
		}
		logx.Infof("已重置文档：来源=%s", src)
		return
	case *syncBlogs:
		if syncer == nil {
			logx.Warnf("未配置 BLOG_FEEDS 或 BLOG_PAGES，跳过同步")
			return
		}
		n, err := syncer.Run(ctx)
		if err != nil {
			logx.Errorf("博客同步失败：%v", err)
			os.Exit(1)
		}
		logx.Infof("博客同步完成：%d 篇", n)
		return
	case *exportPath != "" && !*serve:
		p, err := export.ToFile(ds, *exportPath)
		if err != nil {
			log.Fatalf("export json: %v", err)
		}
		logx.Infof("已导出 %s", p)
		return
	}

	if !*serve {
		flag.Usage()
		return
	}

	// 7) 站点服务：收到信号后优雅关闭
	opt := web.Options{Accessor: acc, Editor: admin.New(acc), AllowedOrigins: cfg.CorsOrigins, StaticDir: cfg.StaticDir}
	if syncer != nil {
		opt.Sync = syncer
	}
	srv, err := web.New(opt)
	if err != nil {
		log.Fatalf("web server: %v", err)
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(cfg.Listen) }()
	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Errorf("站点服务异常退出：%v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logx.Infof("收到退出信号，正在关闭站点服务")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logx.Warnf("关闭站点服务失败：%v", err)
		}
	}
	if *exportPath != "" {
		if p, err := export.ToFile(ds, *exportPath); err == nil {
			logx.Infof("已导出 %s", p)
		}
	}
}

// assetOf 按配置选择默认内容资源：URL 优先，其次本地文件，最后为内置资源。
func assetOf(cfg *config.Config, cl *fetch.Client) docstore.AssetSource {
	switch {
	case cfg.Asset.URL != "":
		return docstore.HTTPAsset{Client: cl, URL: cfg.Asset.URL}
	case cfg.Asset.Path != "":
		return docstore.FileAsset{Path: cfg.Asset.Path}
	default:
		return docstore.EmbeddedAsset{}
	}
}

// mutatingCommand 返回本次要执行的改写文档的一次性命令名，没有时为空。
func mutatingCommand(importPath string, reset, resetAssets, syncBlogs bool) string {
	switch {
	case importPath != "":
		return "-import"
	case reset:
		return "-reset"
	case resetAssets:
		return "-reset-assets"
	case syncBlogs:
		return "-sync"
	}
	return ""
}

// checkOneShot 在服务端渲染模式下拒绝改写文档的命令：该模式不打开数据库，改动会随进程退出丢失。
func checkOneShot(mode docstore.Mode, cmd string) error {
	if cmd == "" || mode != docstore.ModeServerRender {
		return nil
	}
	return fmt.Errorf("%s: MODE=%s does not persist the document, use MODE=interactive", cmd, mode)
}
