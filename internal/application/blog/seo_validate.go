package blog

import (
	"encoding/json"
	"strings"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
)

type SEOValidationError struct {
	Issues []string
}

func (e SEOValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "seo result validation failed"
	}
	return "seo result validation failed: " + strings.Join(e.Issues, "; ")
}

// ValidateSEOResult 校验所有必填字段在 JSON 文本中出现且非 null。
// 空字符串与空数组视为已提供；字段存在性以原始文本为准，
// 避免 Unmarshal 的零值掩盖缺失。
func ValidateSEOResult(res *blogmodel.SEOResult, jsonText string) error {
	if res == nil {
		return SEOValidationError{Issues: []string{"result is nil"}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &fields); err != nil {
		return SEOValidationError{Issues: []string{"payload is not a json object"}}
	}

	var issues []string
	for _, key := range blogmodel.RequiredSEOFields {
		v, ok := fields[key]
		if !ok || isJSONNull(v) {
			issues = append(issues, key+" is required")
		}
	}

	if len(issues) > 0 {
		return SEOValidationError{Issues: issues}
	}
	return nil
}
