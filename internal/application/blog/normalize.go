package blog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
)

// ShapeError 结构化请求体的形状错误，对应 422 响应。
// Issues 逐字段累积，RawBody 原样回带以便上游排查。
type ShapeError struct {
	Issues  []string
	RawBody string
}

func (e *ShapeError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "request shape validation failed"
	}
	return "request shape validation failed: " + strings.Join(e.Issues, "; ")
}

// NormalizeRequest 将任意入站请求体归一化为 BlogRequest。
// 结构化对象走类型校验；其余一律按原始文本处理，该路径永不失败，
// 最坏情况下得到空 prompt 的请求。
func NormalizeRequest(raw []byte) (*blogmodel.BlogRequest, *ShapeError) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			req, shapeErr := normalizeStructured(fields, raw)
			if shapeErr != nil {
				return nil, shapeErr
			}
			if req != nil {
				return req, nil
			}
			// 对象里既无 topic 也无 prompt：退回原始文本路径。
		}
	}

	return normalizeRawText(raw), nil
}

// normalizeStructured 校验已解析对象的字段类型并构造请求。
// 返回 (nil, nil) 表示对象合法但 topic/prompt 均未提供。
func normalizeStructured(fields map[string]json.RawMessage, raw []byte) (*blogmodel.BlogRequest, *ShapeError) {
	var issues []string

	topic, ok := decodeOptionalString(fields, "topic")
	if !ok {
		issues = append(issues, "topic must be a string")
	}
	prompt, promptOK := decodeOptionalString(fields, "prompt")
	if !promptOK {
		issues = append(issues, "prompt must be a string")
	}
	length, lengthOK := decodeOptionalInt(fields, "length")
	if !lengthOK {
		issues = append(issues, "length must be an integer")
	}

	if len(issues) > 0 {
		return nil, &ShapeError{Issues: issues, RawBody: string(raw)}
	}
	if topic == nil && prompt == nil {
		return nil, nil
	}

	req := &blogmodel.BlogRequest{Length: blogmodel.DefaultRequestLength}
	if topic != nil {
		req.Topic = *topic
	}
	if prompt != nil {
		req.Prompt = *prompt
	}
	if length != nil {
		req.Length = *length
	}
	return req, nil
}

// normalizeRawText 原始文本路径：去空白、剥一层引号、探测 {"prompt": ...}。
func normalizeRawText(raw []byte) *blogmodel.BlogRequest {
	rawStr := strings.TrimSpace(string(raw))

	// JSON 字符串形态的请求体只剥一层引号。
	if len(rawStr) >= 2 && strings.HasPrefix(rawStr, `"`) && strings.HasSuffix(rawStr, `"`) {
		rawStr = rawStr[1 : len(rawStr)-1]
	}

	// 若原始体本身是带 prompt 键的 JSON 对象，取该键的值。
	var maybe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &maybe); err == nil {
		if pv, exists := maybe["prompt"]; exists {
			rawStr = promptValueText(pv)
		}
	}

	return &blogmodel.BlogRequest{
		Prompt: rawStr,
		Length: blogmodel.DefaultRequestLength,
	}
}

// promptValueText 字符串取原值，其余类型取其 JSON 文本。
func promptValueText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(v))
}

func decodeOptionalString(fields map[string]json.RawMessage, key string) (*string, bool) {
	v, exists := fields[key]
	if !exists || isJSONNull(v) {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func decodeOptionalInt(fields map[string]json.RawMessage, key string) (*int, bool) {
	v, exists := fields[key]
	if !exists || isJSONNull(v) {
		return nil, true
	}
	var n int
	if err := json.Unmarshal(v, &n); err != nil {
		return nil, false
	}
	return &n, true
}

func isJSONNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// describeRequest 日志用途的简短描述，避免整段 prompt 刷屏。
func describeRequest(req *blogmodel.BlogRequest) string {
	if req == nil {
		return "<nil>"
	}
	return fmt.Sprintf("topic=%q length=%d prompt=%q",
		req.Topic, req.Length, previewText(req.EffectivePrompt(), 60))
}
