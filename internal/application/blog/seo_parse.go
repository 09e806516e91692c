package blog

import (
	"encoding/json"
	"fmt"
	"strings"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
	wfnode "blogsmith-ai-api/internal/workflow/node"
)

// ParseSEOResult 从模型输出中解析 SEOResult，并返回"截取后的 JSON 文本"。
func ParseSEOResult(rawText string) (*blogmodel.SEOResult, string, error) {
	jsonText := wfnode.ExtractJSONObject(rawText)
	if strings.TrimSpace(jsonText) == "" {
		return nil, jsonText, fmt.Errorf("empty seo output")
	}

	var res blogmodel.SEOResult
	if err := json.Unmarshal([]byte(jsonText), &res); err != nil {
		return nil, jsonText, fmt.Errorf("failed to parse seo result json: %w", err)
	}
	return &res, jsonText, nil
}
