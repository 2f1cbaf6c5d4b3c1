package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-medical-site/internal/fetch"
	"go-medical-site/internal/model"
	"go-medical-site/internal/rules"
)

// dateLayouts 为列表页日期文本尝试的格式。
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayout,
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseBlogPage 根据选择器预设从博客列表页抽取文章（最多 max 条，0 表示不限制）。
// 规则语法：
// - 文本：".title" 或 "."（取当前项文本）
// - 属性："a@href"/"img@src"/"@href"（当前项属性）
// - 回退：使用 "||" 连接多个候选，按先后尝试
func ParseBlogPage(ctx context.Context, cl *fetch.Client, pageURL string, bp *rules.BlogPage, max int) ([]model.Blog, error) {
	if bp == nil || bp.Item == "" {
		return nil, fmt.Errorf("no blog_page rule for %s", pageURL)
	}
	b, _, err := get(ctx, cl, pageURL)
	if err != nil {
		return nil, fmt.Errorf("GET blog page %s: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(b)))
	if err != nil {
		return nil, fmt.Errorf("parse blog page html: %w", err)
	}
	var out []model.Blog
	doc.Find(bp.Item).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.Join(strings.Fields(getVal(s, bp.Title)), " ")
		if title == "" {
			return true
		}
		out = append(out, model.Blog{
			Title:   title,
			Link:    joinNonEmpty(pageURL, getVal(s, bp.Link)),
			Date:    normalizeDate(getVal(s, bp.Date)),
			Excerpt: Excerpt(getVal(s, bp.Excerpt), ExcerptLen),
			Image:   joinNonEmpty(pageURL, getVal(s, bp.Image)),
		})
		return max <= 0 || len(out) < max
	})
	return out, nil
}

// getVal 解析表达式并支持使用 "||" 作为回退分隔，例如："a@href||@href" 或 ".title||h2||."。
func getVal(scope *goquery.Selection, expr string) string {
	for _, p := range strings.Split(expr, "||") {
		if v := getValSingle(scope, strings.TrimSpace(p)); v != "" {
			return v
		}
	}
	return ""
}

// getValSingle 解析单个表达式：文本或属性读取。
func getValSingle(scope *goquery.Selection, expr string) string {
	if expr == "" {
		return ""
	}
	if expr == "." {
		return strings.TrimSpace(scope.Text())
	}
	if at := strings.Index(expr, "@"); at != -1 {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		if sel == "" {
			return strings.TrimSpace(scope.AttrOr(attr, ""))
		}
		return strings.TrimSpace(scope.Find(sel).First().AttrOr(attr, ""))
	}
	return strings.TrimSpace(scope.Find(expr).First().Text())
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC().Format(DateLayout)
		}
	}
	return s
}

func joinNonEmpty(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	return joinURL(base, ref)
}
