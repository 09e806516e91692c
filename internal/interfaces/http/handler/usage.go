package handler

import (
	"strconv"
	"time"

	"blogsmith-ai-api/internal/domain/repository"
	"blogsmith-ai-api/internal/interfaces/http/dto"
	"blogsmith-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// 用量查询窗口上限，防止全表扫描。
const maxUsageWindowHours = 24 * 30

// UsageHandler LLM 用量查询接口
type UsageHandler struct {
	usageRepo repository.LLMUsageEventRepository
}

// NewUsageHandler 创建 UsageHandler
func NewUsageHandler(usageRepo repository.LLMUsageEventRepository) *UsageHandler {
	return &UsageHandler{usageRepo: usageRepo}
}

// Summary 按工作流汇总近期 LLM 用量
// @Summary LLM 用量汇总
// @Description 统计窗口内各工作流的调用次数与 token 消耗
// @Tags Usage
// @Accept json
// @Produce json
// @Param hours query int false "统计窗口（小时）" default(24)
// @Success 200 {object} dto.Response[dto.UsageSummaryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/usage/summary [get]
func (h *UsageHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	hours := 24
	if v := c.Query("hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > maxUsageWindowHours {
			dto.BadRequest(c, "hours must be an integer between 1 and 720")
			return
		}
		hours = parsed
	}

	end := time.Now()
	start := end.Add(-time.Duration(hours) * time.Hour)

	total, err := h.usageRepo.GetTokenUsage(ctx, start, end)
	if err != nil {
		logger.Error(ctx, "failed to get token usage", err)
		dto.InternalError(c, "failed to get token usage")
		return
	}

	rows, err := h.usageRepo.Summarize(ctx, start, end)
	if err != nil {
		logger.Error(ctx, "failed to summarize llm usage", err)
		dto.InternalError(c, "failed to summarize llm usage")
		return
	}

	dto.Success(c, dto.ToUsageSummaryResponse(start, end, total, rows))
}
