// 包 fetch 封装 HTTP 客户端（代理/超时/重试），用于读取远程内容资源与订阅源。
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// maxBody 限制单次读取的响应体大小。
const maxBody = 8 << 20

const defaultUA = "go-medical-site/1.0 (+https://github.com/)"

// StatusError 表示服务端返回了非 2xx 状态。
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: http status %d", e.URL, e.Status)
}

// Client 为带重试的 HTTP 客户端。
type Client struct {
	http  *http.Client
	retry int
	wait  time.Duration
}

// Options 为客户端构造参数。
type Options struct {
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
	Retry      int
	// RetryWait 为线性回退的基础间隔，默认 300ms。
	RetryWait time.Duration
}

// New 创建客户端，支持 http/https 代理与基础超时配置。
func New(opts Options) (*Client, error) {
	var proxyHTTP, proxyHTTPS *url.URL
	var err error
	if opts.ProxyHTTP != "" {
		if proxyHTTP, err = url.Parse(opts.ProxyHTTP); err != nil {
			return nil, fmt.Errorf("parse http proxy: %w", err)
		}
	}
	if opts.ProxyHTTPS != "" {
		if proxyHTTPS, err = url.Parse(opts.ProxyHTTPS); err != nil {
			return nil, fmt.Errorf("parse https proxy: %w", err)
		}
	}
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" && proxyHTTPS != nil {
				return proxyHTTPS, nil
			}
			if req.URL.Scheme == "http" && proxyHTTP != nil {
				return proxyHTTP, nil
			}
			return http.ProxyFromEnvironment(req)
		},
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = 300 * time.Millisecond
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	cl := &http.Client{Transport: transport, Timeout: opts.Timeout}
	return &Client{http: cl, retry: opts.Retry, wait: opts.RetryWait}, nil
}

// Get 发起 GET 请求，非 2xx 或网络错误时按线性回退重试。
// 4xx（除 429）不重试，直接返回 *StatusError。
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error
	for i := 0; i <= c.retry; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent())
		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		if err == nil {
			resp.Body.Close()
			lastErr = &StatusError{URL: rawURL, Status: resp.StatusCode}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
		} else {
			lastErr = err
		}
		if i == c.retry {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * c.wait):
		}
	}
	return nil, lastErr
}

// GetBytes 读取完整响应体（受 maxBody 限制）。
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", rawURL, err)
	}
	return b, nil
}

// GetJSON 读取并解码 JSON 响应到 v。
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	b, err := c.GetBytes(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode json %s: %w", rawURL, err)
	}
	return nil
}

// userAgent 支持环境变量 MEDSITE_UA 覆盖。
func userAgent() string {
	if ua := os.Getenv("MEDSITE_UA"); ua != "" {
		return ua
	}
	return defaultUA
}
