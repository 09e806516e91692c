package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
	wfmodel "blogsmith-ai-api/internal/workflow/model"
	wfnode "blogsmith-ai-api/internal/workflow/node"
	"blogsmith-ai-api/pkg/logger"
	"blogsmith-ai-api/pkg/metrics"
)

const (
	minTopicRunes = 3
	maxTopicRunes = 80
)

// extractionPayload 提取链输出的原始形状。length 用指针区分缺省。
type extractionPayload struct {
	Topic  string `json:"topic"`
	Length *int   `json:"length"`
}

// resolveParams 决定写作参数：显式 topic 直接采用，否则走提取链。
// 提取链任何一步失败都回退到整段 prompt 作为主题，保证流水线不中断。
func (p *Pipeline) resolveParams(ctx context.Context, req *blogmodel.BlogRequest) blogmodel.ExtractedParams {
	if req.HasTopic() {
		return blogmodel.NewExtractedParams(req.Topic, req.Length)
	}

	params, err := p.extractParams(ctx, req.EffectivePrompt())
	if err != nil {
		logger.Warn(ctx, "parameter extraction failed, falling back to raw prompt", "error", err.Error())
		metrics.ExtractionFallbackTotal.Inc()
		return blogmodel.NewExtractedParams(req.EffectivePrompt(), req.Length)
	}
	return *params
}

// extractParams 调用提取链并解析其 JSON 输出。
func (p *Pipeline) extractParams(ctx context.Context, prompt string) (*blogmodel.ExtractedParams, error) {
	defer observeStage("extract_params", time.Now())

	binding, err := p.bindRole(p.llmCfg.Roles.Extraction)
	if err != nil {
		return nil, err
	}

	outMsg, err := p.extraction.Invoke(ctx, &wfmodel.ExtractionInput{
		Prompt:      prompt,
		Provider:    binding.provider,
		Model:       binding.model,
		Temperature: binding.temperature,
		MaxTokens:   binding.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction chain: %w", err)
	}

	return parseExtractedParams(outMsg.Content)
}

// parseExtractedParams 解析模型输出并做范围校验。
// topic 修剪后必须在 [3,80] 个字符内；length 缺省补 5，随后统一夹取。
func parseExtractedParams(content string) (*blogmodel.ExtractedParams, error) {
	jsonText := wfnode.ExtractJSONObject(content)
	if strings.TrimSpace(jsonText) == "" {
		return nil, fmt.Errorf("no json object in extraction output")
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, fmt.Errorf("decode extraction output: %w", err)
	}

	topic := strings.TrimSpace(payload.Topic)
	if n := utf8.RuneCountInString(topic); n < minTopicRunes || n > maxTopicRunes {
		return nil, fmt.Errorf("extracted topic length %d outside [%d,%d]", n, minTopicRunes, maxTopicRunes)
	}

	length := blogmodel.DefaultExtractedLength
	if payload.Length != nil {
		length = *payload.Length
	}

	params := blogmodel.NewExtractedParams(topic, length)
	return &params, nil
}
