// 包 config 负责加载与校验应用配置（settings.yaml），
// 对外提供结构体 Config 及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode         string      `yaml:"MODE"`   // interactive|server
	Listen       string      `yaml:"LISTEN"` // :8080
	CorsOrigins  []string    `yaml:"CORS_ORIGINS"`
	StaticDir    string      `yaml:"STATIC_DIR"` // assets
	StorageKey   string      `yaml:"STORAGE_KEY"`
	Asset        Asset       `yaml:"ASSET"`
	BlogFeeds    []string    `yaml:"BLOG_FEEDS"`
	BlogPages    []BlogPage  `yaml:"BLOG_PAGES"`
	Rules        string      `yaml:"RULES"` // rules.yaml
	MaxBlogs     int         `yaml:"MAX_BLOGS"`
	ResetOnStart bool        `yaml:"RESET_ON_START"`
	Database     Database    `yaml:"DATABASE"`
	Concurrency  Concurrency `yaml:"CONCURRENCY"`
	Proxy        Proxy       `yaml:"PROXY"`
	LogLevel     string      `yaml:"LOG_LEVEL"`
	LogFormat    string      `yaml:"LOG_FORMAT"` // text|json|pretty
	LogLocale    string      `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor     string      `yaml:"LOG_COLOR"`  // auto|always|never
}

// Asset 指定默认内容资源：URL 优先，其次本地文件，都为空时使用内置资源。
type Asset struct {
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// BlogPage 为没有订阅的博客列表页，Theme 对应 rules.yaml 中的预设名。
type BlogPage struct {
	URL   string `yaml:"url"`
	Theme string `yaml:"theme"`
}

type Database struct {
	Type string `yaml:"type"` // sqlite (default)
	DSN  string `yaml:"dsn"`  // ./data.db
}

type Concurrency struct {
	Fetch int `yaml:"fetch"`
	Retry int `yaml:"retry"`
}

type Proxy struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// Default 返回填充好默认值的配置。
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// Load 从文件读取 YAML 并反序列化为 Config，同时进行基础校验与默认值填充。
// 文件不存在时返回默认配置。
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(b)
}

// Parse 解析 YAML 文本。
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 负责合法性检查与默认值设置，避免在业务层分散判空逻辑。
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "":
		c.Mode = "interactive"
	case "interactive", "browser", "server", "ssr", "server-render":
	default:
		return fmt.Errorf("unsupported MODE: %s", c.Mode)
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.StorageKey == "" {
		c.StorageKey = "medical_website_data"
	}
	if c.StaticDir == "" {
		c.StaticDir = "assets"
	}
	if len(c.CorsOrigins) == 0 {
		c.CorsOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	if c.MaxBlogs < 0 {
		return errors.New("MAX_BLOGS must be >= 0")
	}
	if c.MaxBlogs == 0 {
		c.MaxBlogs = 12
	}
	for i, p := range c.BlogPages {
		if strings.TrimSpace(p.URL) == "" {
			return fmt.Errorf("BLOG_PAGES[%d]: url is required", i)
		}
	}
	if c.Rules == "" {
		c.Rules = "rules.yaml"
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "./data.db"
	}
	if c.Concurrency.Fetch <= 0 {
		c.Concurrency.Fetch = 4
	}
	if c.Concurrency.Retry < 0 {
		c.Concurrency.Retry = 2
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}
