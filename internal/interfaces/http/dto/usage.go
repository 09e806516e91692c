// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"blogsmith-ai-api/internal/domain/repository"
)

// UsageWorkflowSummary 单个工作流的用量汇总
type UsageWorkflowSummary struct {
	Workflow         string `json:"workflow"`
	Calls            int64  `json:"calls"`
	TokensPrompt     int64  `json:"tokens_prompt"`
	TokensCompletion int64  `json:"tokens_completion"`
}

// UsageSummaryResponse 窗口内的用量汇总响应
type UsageSummaryResponse struct {
	WindowStart time.Time               `json:"window_start"`
	WindowEnd   time.Time               `json:"window_end"`
	TotalTokens int64                   `json:"total_tokens"`
	Workflows   []*UsageWorkflowSummary `json:"workflows"`
}

// ToUsageSummaryResponse 聚合结果转响应
func ToUsageSummaryResponse(start, end time.Time, total int64, rows []repository.LLMUsageSummary) *UsageSummaryResponse {
	workflows := make([]*UsageWorkflowSummary, 0, len(rows))
	for _, row := range rows {
		workflows = append(workflows, &UsageWorkflowSummary{
			Workflow:         row.Workflow,
			Calls:            row.Calls,
			TokensPrompt:     row.TokensPrompt,
			TokensCompletion: row.TokensCompletion,
		})
	}
	return &UsageSummaryResponse{
		WindowStart: start,
		WindowEnd:   end,
		TotalTokens: total,
		Workflows:   workflows,
	}
}
