package model

// 段落数约束：任何来源的 length 最终都钳制到 [MinLength, MaxLength]。
const (
	MinLength = 1
	MaxLength = 20

	// DefaultExtractedLength 提取结果缺失 length 时的默认值。
	DefaultExtractedLength = 5
)

// ExtractedParams 下游草稿与终稿装配可直接使用的参数。
// 不变量：Length 始终是钳制后的合法值。
type ExtractedParams struct {
	Topic  string
	Length int
}

// NewExtractedParams 构造参数；length 统一在此钳制，调用方不得绕过。
func NewExtractedParams(topic string, length int) ExtractedParams {
	return ExtractedParams{
		Topic:  topic,
		Length: ClampLength(length),
	}
}

// ClampLength 将段落数钳制到合法区间。
func ClampLength(n int) int {
	if n < MinLength {
		return MinLength
	}
	if n > MaxLength {
		return MaxLength
	}
	return n
}
