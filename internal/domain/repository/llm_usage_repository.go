// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"blogsmith-ai-api/internal/domain/entity"
)

// LLMUsageSummary 按工作流聚合的用量汇总。
type LLMUsageSummary struct {
	Workflow         string `json:"workflow"`
	Calls            int64  `json:"calls"`
	TokensPrompt     int64  `json:"tokens_prompt"`
	TokensCompletion int64  `json:"tokens_completion"`
}

type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
	GetTokenUsage(ctx context.Context, startInclusive, endExclusive time.Time) (int64, error)
	Summarize(ctx context.Context, startInclusive, endExclusive time.Time) ([]LLMUsageSummary, error)
}
