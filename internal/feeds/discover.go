// 包 feeds 负责博客订阅的发现与解析：
// - DiscoverFeed：判断地址本身是否为订阅，否则从 HTML <link> 与常见路径中发现
// - ParseBlogs：使用 gofeed 解析 RSS/Atom/JSON Feed 并转换为站点博客条目
package feeds

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go-medical-site/internal/fetch"
	"go-medical-site/internal/logx"

	"github.com/PuerkitoBio/goquery"
)

// commonEndpoints 为 HTML 中未声明订阅时依次探测的路径。
var commonEndpoints = []string{"/feed", "/feed.xml", "/rss.xml", "/atom.xml", "/index.xml", "/feed.json"}

// DiscoverFeed 返回 site 对应的订阅地址。site 本身就是订阅时原样返回。
func DiscoverFeed(ctx context.Context, cl *fetch.Client, site string) (string, error) {
	b, ct, err := get(ctx, cl, site)
	if err != nil {
		return "", fmt.Errorf("GET site %s: %w", site, err)
	}
	if looksLikeFeed(ct, b) {
		return site, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	var found string
	doc.Find("link[rel~='alternate']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.ToLower(s.AttrOr("type", ""))
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return true
		}
		if strings.Contains(t, "rss") || strings.Contains(t, "atom") || strings.Contains(t, "json") {
			found = joinURL(site, href)
			return false
		}
		return true
	})
	if found != "" {
		logx.Debugf("从 <link> 发现订阅：%s", found)
		return found, nil
	}
	for _, p := range commonEndpoints {
		u := joinURL(site, p)
		logx.Debugf("探测候选订阅：%s", u)
		if probeFeed(ctx, cl, u) {
			return u, nil
		}
	}
	return "", fmt.Errorf("no feed discovered for %s", site)
}

func get(ctx context.Context, cl *fetch.Client, u string) ([]byte, string, error) {
	resp, err := cl.Get(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(limit(resp.Body)); err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return buf.Bytes(), resp.Header.Get("Content-Type"), nil
}

// probeFeed 以较短超时探测候选地址是否为订阅。
func probeFeed(ctx context.Context, cl *fetch.Client, feedURL string) bool {
	prCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	b, ct, err := get(prCtx, cl, feedURL)
	if err != nil {
		return false
	}
	return looksLikeFeed(ct, b)
}

// looksLikeFeed 根据 Content-Type 与内容开头粗略判断是否为订阅，避免把 HTML 误判为订阅。
func looksLikeFeed(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "html") {
		return false
	}
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") || strings.Contains(ct, "xml") {
		return true
	}
	head := body
	if len(head) > 2048 {
		head = head[:2048]
	}
	lb := bytes.ToLower(head)
	if bytes.Contains(lb, []byte("<rss")) || bytes.Contains(lb, []byte("<feed")) || bytes.Contains(lb, []byte("<rdf")) {
		return true
	}
	return bytes.Contains(lb, []byte("jsonfeed.org/version"))
}

// joinURL 将相对路径解析为绝对 URL。
func joinURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	u, err := url.Parse(base)
	if err != nil {
		return base + ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return base + ref
	}
	return u.ResolveReference(ru).String()
}
