// 包 blogsync 负责博客同步主流程：
// - 并发解析所有配置的订阅（失败时尝试从站点页面发现订阅）
// - 没有订阅的站点按 rules 预设解析博客列表页
// - 按标题去重、按日期倒序、截断到上限
// - 分配 ID 后整体写回 blogs 分区
package blogsync

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go-medical-site/internal/content"
	"go-medical-site/internal/feeds"
	"go-medical-site/internal/fetch"
	"go-medical-site/internal/logx"
	"go-medical-site/internal/rules"
)

// Options 为同步参数。
type Options struct {
	Feeds       []string
	Pages       []Page
	Rules       *rules.Rules
	MaxBlogs    int
	Concurrency int
}

// Page 为按选择器解析的博客列表页；Theme 为 rules 中的预设名。
type Page struct {
	URL   string
	Theme string
}

// Runner 同步执行器，持有访问层与 HTTP 客户端。
type Runner struct {
	acc   *content.Accessor
	fetch *fetch.Client
	opts  Options
}

// New 创建 Runner。
func New(acc *content.Accessor, cl *fetch.Client, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Rules == nil {
		opts.Rules = rules.Default()
	}
	return &Runner{acc: acc, fetch: cl, opts: opts}
}

// Run 执行一轮同步，返回写入的博客数。没有任何结果时 blogs 分区保持不变。
func (r *Runner) Run(ctx context.Context) (int, error) {
	srcs := dedup(r.opts.Feeds)
	if len(srcs) == 0 && len(r.opts.Pages) == 0 {
		logx.Warnf("未配置博客来源（BLOG_FEEDS/BLOG_PAGES），跳过同步")
		return 0, nil
	}
	buf := NewBuffer()
	sem := make(chan struct{}, r.opts.Concurrency)
	var wg sync.WaitGroup
	for _, src := range srcs {
		wg.Add(1)
		sem <- struct{}{}
		go func(src string) {
			defer wg.Done()
			defer func() { <-sem }()
			r.processFeed(ctx, src, buf)
		}(src)
	}
	for _, pg := range r.opts.Pages {
		wg.Add(1)
		sem <- struct{}{}
		go func(pg Page) {
			defer wg.Done()
			defer func() { <-sem }()
			r.processPage(ctx, pg, buf)
		}(pg)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	blogs := buf.Snapshot(r.opts.MaxBlogs)
	if len(blogs) == 0 {
		logx.Warnf("本轮同步未得到任何博客，保留现有内容")
		return 0, nil
	}
	// 同名博客沿用原有阅读数
	views := map[string]int{}
	for _, b := range r.acc.Blogs() {
		views[b.Title] = b.Views
	}
	for i := range blogs {
		blogs[i].ID = r.acc.NextID()
		blogs[i].Views = views[blogs[i].Title]
	}
	if err := r.acc.UpdateBlogs(ctx, blogs); err != nil {
		return len(blogs), err
	}
	logx.Infof("博客同步完成：订阅=%d 列表页=%d 条目=%d", len(srcs), len(r.opts.Pages), len(blogs))
	return len(blogs), nil
}

// processFeed 处理单个来源：直接解析，失败时按站点页面发现订阅后重试。
func (r *Runner) processFeed(ctx context.Context, src string, buf *Buffer) {
	host := hostOf(src)
	items, err := feeds.ParseBlogs(ctx, r.fetch, src, r.opts.MaxBlogs)
	if err != nil {
		feedURL, derr := feeds.DiscoverFeed(ctx, r.fetch, src)
		if derr != nil || feedURL == src {
			logx.Warnf("[%s] 解析订阅失败：%v", host, err)
			return
		}
		logx.Debugf("[%s] 发现订阅：%s", host, feedURL)
		if items, err = feeds.ParseBlogs(ctx, r.fetch, feedURL, r.opts.MaxBlogs); err != nil {
			logx.Warnf("[%s] 解析订阅失败：%v", host, err)
			return
		}
	}
	logx.Infof("[%s] 文章解析完成：%d", host, len(items))
	buf.Add(items)
}

// processPage 按主题预设解析博客列表页。
func (r *Runner) processPage(ctx context.Context, pg Page, buf *Buffer) {
	host := hostOf(pg.URL)
	preset, ok := r.opts.Rules.GetPreset(pg.Theme)
	if !ok || preset.BlogPage == nil {
		logx.Warnf("[%s] 未找到列表页规则：theme=%s", host, pg.Theme)
		return
	}
	items, err := feeds.ParseBlogPage(ctx, r.fetch, pg.URL, preset.BlogPage, r.opts.MaxBlogs)
	if err != nil {
		logx.Warnf("[%s] 解析列表页失败：%v", host, err)
		return
	}
	logx.Infof("[%s] 列表页解析完成：%d", host, len(items))
	buf.Add(items)
}

// dedup 去除空白与重复的来源，保持配置顺序。
func dedup(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// hostOf 提取链接的主机名，失败时做字符串兜底，便于日志定位。
func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if j := strings.IndexAny(s, "/?#"); j >= 0 {
		s = s[:j]
	}
	return s
}
