package usage

import (
	"context"
	"fmt"
	"strings"

	"blogsmith-ai-api/internal/domain/entity"
	"blogsmith-ai-api/internal/domain/repository"
	"blogsmith-ai-api/internal/domain/service"
)

// Recorder 把模型调用的用量事件落库。
// 落库失败不向上传播：用量记账绝不能反过来拖垮主链路。
type Recorder struct {
	usageRepo repository.LLMUsageEventRepository
}

func NewRecorder(usageRepo repository.LLMUsageEventRepository) *Recorder {
	return &Recorder{usageRepo: usageRepo}
}

func (r *Recorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	evt := &entity.LLMUsageEvent{
		Workflow:         strings.TrimSpace(in.Workflow),
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		DurationMs:       in.DurationMs,
	}
	_ = r.usageRepo.Create(ctx, evt)
	return nil
}
