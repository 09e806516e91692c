package model

// DefaultRequestLength 请求未显式给出段落数时的默认值。
const DefaultRequestLength = 4

// BlogRequest 归一化后的生成请求。Topic/Prompt 为空串表示未提供；
// Length 在归一化阶段兜底为 DefaultRequestLength。归一化后不可变。
type BlogRequest struct {
	Topic  string
	Length int
	Prompt string
}

// EffectivePrompt 优先取 Prompt，其次 Topic，都缺省时为空串。
func (r *BlogRequest) EffectivePrompt() string {
	if r == nil {
		return ""
	}
	if r.Prompt != "" {
		return r.Prompt
	}
	if r.Topic != "" {
		return r.Topic
	}
	return ""
}

// HasTopic 判断是否显式给出主题；显式主题会跳过参数提取阶段。
func (r *BlogRequest) HasTopic() bool {
	return r != nil && r.Topic != ""
}
