package feeds

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go-medical-site/internal/fetch"
	"go-medical-site/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// ExcerptLen 为摘要的最大字符数（按 rune 计）。
const ExcerptLen = 160

// DateLayout 为博客条目日期格式，字符串序即时间序。
const DateLayout = "2006-01-02"

const maxFeedBody = 4 << 20

// ParseBlogs 抓取并解析订阅，返回最多 max 条博客（0 表示不限制）。返回条目的 ID 为 0，由调用方分配。
func ParseBlogs(ctx context.Context, cl *fetch.Client, feedURL string, max int) ([]model.Blog, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()
	// gofeed 不直接接收自定义 http.Client，先用 fetch 抓取再交给 gofeed 解析
	resp, err := cl.Get(reqCtx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("GET feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()
	feed, err := gofeed.NewParser().Parse(limit(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	out := make([]model.Blog, 0, len(feed.Items))
	for _, it := range feed.Items {
		b, ok := toBlog(it, feedURL)
		if !ok {
			continue
		}
		out = append(out, b)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out, nil
}

func toBlog(it *gofeed.Item, feedURL string) (model.Blog, bool) {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		return model.Blog{}, false
	}
	body := it.Description
	if strings.TrimSpace(body) == "" {
		body = it.Content
	}
	b := model.Blog{
		Title:   title,
		Excerpt: Excerpt(body, ExcerptLen),
		Link:    strings.TrimSpace(it.Link),
	}
	if t := pickTime(it.PublishedParsed, it.UpdatedParsed); !t.IsZero() {
		b.Date = t.UTC().Format(DateLayout)
	}
	base := b.Link
	if base == "" {
		base = feedURL
	}
	b.Image = imageOf(it, base)
	return b, true
}

// imageOf 依次取条目图片、图片类附件、正文中的第一张 <img>。
func imageOf(it *gofeed.Item, base string) string {
	if it.Image != nil && it.Image.URL != "" {
		return joinURL(base, it.Image.URL)
	}
	for _, enc := range it.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(strings.ToLower(enc.Type), "image/") {
			return joinURL(base, enc.URL)
		}
	}
	for _, html := range []string{it.Content, it.Description} {
		if src := firstImage(html); src != "" {
			return joinURL(base, src)
		}
	}
	return ""
}

func firstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("img[src]").First().AttrOr("src", ""))
}

// Excerpt 提取 HTML 纯文本、折叠空白并截断到 n 个字符（超出时追加 "..."）。
func Excerpt(html string, n int) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:n])) + "..."
}

func pickTime(a, b *time.Time) time.Time {
	if a != nil {
		return *a
	}
	if b != nil {
		return *b
	}
	return time.Time{}
}

func limit(r io.Reader) io.Reader { return io.LimitReader(r, maxFeedBody) }
