package docstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go-medical-site/internal/model"
)

var (
	// ErrInvalidJSON 表示文本不是合法的 JSON 对象。
	ErrInvalidJSON = errors.New("invalid json document")
	// ErrMissingSection 表示缺少必需的顶层分区。
	ErrMissingSection = errors.New("missing required section")
)

// RequiredSections 为导入时做浅层结构检查的顶层键。
var RequiredSections = []string{"doctorInfo", "treatments", "testimonials", "contactInfo", "siteSettings"}

// Decode 解析 JSON 并做浅层结构检查；值为 null 的分区视为缺失。
func Decode(b []byte) (*model.WebsiteData, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrInvalidJSON)
	}
	for _, k := range RequiredSections {
		raw, ok := top[k]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSection, k)
		}
	}
	var d model.WebsiteData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return &d, nil
}
