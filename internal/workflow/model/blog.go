package model

import "github.com/cloudwego/eino/schema"

// ExtractionInput 参数提取链输入
type ExtractionInput struct {
	Prompt string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// DraftInput 草稿生成链输入
type DraftInput struct {
	Topic  string
	Length int

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// DraftResult 草稿生成链输出：模型回复 + 本次会话句柄。
// 会话句柄仅供终稿装配阶段复用。
type DraftResult struct {
	Message *schema.Message
	Thread  *ConversationThread
}

// SEOOptimizeInput SEO 优化链输入
type SEOOptimizeInput struct {
	Article string

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

// AssemblyInput 终稿装配链输入：沿用草稿会话，SEOPayload 为序列化后的优化结果。
type AssemblyInput struct {
	Topic      string
	Length     int
	SEOPayload string
	Thread     *ConversationThread

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}
