// 包 rules 负责加载并提供博客列表页解析规则（rules.yaml），
// 以预设名（如 default/wordpress）组织 CSS 选择器，用于没有订阅的站点。
package rules

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules 表示全部规则集合：键为预设名，值为具体规则。
type Rules struct {
	Presets map[string]Preset `yaml:",inline"`
}

// Preset 为单个主题预设的解析规则集合。
type Preset struct {
	BlogPage *BlogPage `yaml:"blog_page"`
}

// BlogPage 描述博客列表页的选择器：
// - item：每篇文章的容器
// - title/link/date/excerpt/image：取文本或属性（支持 a@href / img@src / time@datetime）
type BlogPage struct {
	Item    string `yaml:"item"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Date    string `yaml:"date"`
	Excerpt string `yaml:"excerpt"`
	Image   string `yaml:"image"`
}

// Default 返回内置预设，rules.yaml 不存在时使用。
func Default() *Rules {
	return &Rules{Presets: map[string]Preset{
		"default": {BlogPage: &BlogPage{
			Item:    "article",
			Title:   "h2||h3||.entry-title||.title",
			Link:    "h2 a@href||h3 a@href||a@href",
			Date:    "time@datetime||time||.date",
			Excerpt: ".excerpt||.entry-summary||p",
			Image:   "img@src",
		}},
		"wordpress": {BlogPage: &BlogPage{
			Item:    "article.post",
			Title:   ".entry-title",
			Link:    ".entry-title a@href",
			Date:    "time.entry-date@datetime",
			Excerpt: ".entry-summary||.entry-content p",
			Image:   ".post-thumbnail img@src",
		}},
	}}
}

// Load 从文件加载 YAML 到 Rules.Presets；文件不存在时返回内置预设。
func Load(path string) (*Rules, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(b, &r.Presets); err != nil {
		return nil, fmt.Errorf("unmarshal rules %s: %w", path, err)
	}
	return &r, nil
}

// GetPreset 按名称获取预设（不区分大小写），若为空或不存在则回退到 "default"。
func (r *Rules) GetPreset(name string) (Preset, bool) {
	if r == nil || len(r.Presets) == 0 {
		return Preset{}, false
	}
	if name == "" {
		name = "default"
	}
	if p, ok := r.Presets[name]; ok {
		return p, true
	}
	lower := strings.ToLower(name)
	for k, v := range r.Presets {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	if p, ok := r.Presets["default"]; ok {
		return p, true
	}
	return Preset{}, false
}
