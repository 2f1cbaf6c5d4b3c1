package blogsync

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go-medical-site/internal/feeds"
	"go-medical-site/internal/model"
)

// Buffer 在一轮同步中收集各订阅的条目，按标题去重（忽略大小写与首尾空白）。
type Buffer struct {
	mu    sync.Mutex
	blogs map[string]model.Blog
}

func NewBuffer() *Buffer {
	return &Buffer{blogs: make(map[string]model.Blog)}
}

// Add 合并条目；标题重复时保留日期较新的一条。
func (b *Buffer) Add(list []model.Blog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range list {
		k := strings.ToLower(strings.TrimSpace(p.Title))
		if k == "" {
			continue
		}
		if old, ok := b.blogs[k]; ok && !newer(p, old) {
			continue
		}
		b.blogs[k] = p
	}
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blogs)
}

// Snapshot 返回副本：按日期倒序（同日按标题），无法解析日期的条目排在最后；最多 max 条（0 表示不限制）。
func (b *Buffer) Snapshot(max int) []model.Blog {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Blog, 0, len(b.blogs))
	for _, v := range b.blogs {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if newer(out[i], out[j]) {
			return true
		}
		if newer(out[j], out[i]) {
			return false
		}
		return out[i].Title < out[j].Title
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// newer 报告 a 的日期是否晚于 b；可解析的日期总是比不可解析的新。
func newer(a, b model.Blog) bool {
	ta, oka := parseDate(a.Date)
	tb, okb := parseDate(b.Date)
	switch {
	case oka && okb:
		return ta.After(tb)
	default:
		return oka && !okb
	}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(feeds.DateLayout, s)
	return t, err == nil
}
