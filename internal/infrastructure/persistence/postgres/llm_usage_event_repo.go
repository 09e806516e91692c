// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"blogsmith-ai-api/internal/domain/entity"
	"blogsmith-ai-api/internal/domain/repository"
)

type LLMUsageEventRepository struct {
	client *Client
}

func NewLLMUsageEventRepository(client *Client) *LLMUsageEventRepository {
	return &LLMUsageEventRepository{client: client}
}

func (r *LLMUsageEventRepository) Create(ctx context.Context, event *entity.LLMUsageEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create llm usage event: %w", err)
	}
	return nil
}

func (r *LLMUsageEventRepository) GetTokenUsage(ctx context.Context, startInclusive, endExclusive time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.GetTokenUsage")
	defer span.End()

	var total int64
	if err := r.client.db.WithContext(ctx).Model(&entity.LLMUsageEvent{}).
		Where("created_at >= ? AND created_at < ?", startInclusive, endExclusive).
		Select("COALESCE(SUM(COALESCE(tokens_prompt,0) + COALESCE(tokens_completion,0)),0)").
		Scan(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get llm usage: %w", err)
	}
	return total, nil
}

// Summarize 按工作流聚合窗口内的调用次数与 token 用量。
func (r *LLMUsageEventRepository) Summarize(ctx context.Context, startInclusive, endExclusive time.Time) ([]repository.LLMUsageSummary, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.Summarize")
	defer span.End()

	var summaries []repository.LLMUsageSummary
	if err := r.client.db.WithContext(ctx).Model(&entity.LLMUsageEvent{}).
		Where("created_at >= ? AND created_at < ?", startInclusive, endExclusive).
		Select("workflow, COUNT(*) AS calls, " +
			"COALESCE(SUM(tokens_prompt),0) AS tokens_prompt, " +
			"COALESCE(SUM(tokens_completion),0) AS tokens_completion").
		Group("workflow").
		Order("workflow").
		Scan(&summaries).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to summarize llm usage: %w", err)
	}
	return summaries, nil
}
