// Package handler 提供 HTTP 请求处理器
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	appblog "blogsmith-ai-api/internal/application/blog"
	blogmodel "blogsmith-ai-api/internal/application/blog/model"
	"blogsmith-ai-api/internal/interfaces/http/dto"
	"blogsmith-ai-api/pkg/errors"
	"blogsmith-ai-api/pkg/logger"
	"blogsmith-ai-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// BlogGenerator 生成端点依赖的流水线入口
type BlogGenerator interface {
	Run(ctx context.Context, req *blogmodel.BlogRequest) (*appblog.PipelineResult, error)
}

// BlogHandler 博客生成与回显接口
type BlogHandler struct {
	pipeline BlogGenerator
	archiver *appblog.Archiver
}

// NewBlogHandler 创建 BlogHandler
func NewBlogHandler(pipeline BlogGenerator, archiver *appblog.Archiver) *BlogHandler {
	return &BlogHandler{
		pipeline: pipeline,
		archiver: archiver,
	}
}

// Generate 生成一篇 SEO 优化的博客文章
// @Summary 生成博客文章
// @Description 接收任意形状的请求体，归一化后经提参/初稿/SEO/装配流水线生成终稿
// @Tags Blog
// @Accept json
// @Produce json
// @Success 200 {object} dto.BlogGenerateResponse
// @Failure 422 {object} dto.BlogShapeErrorResponse
// @Failure 500 {object} dto.BlogFaultResponse
// @Router /generate-blog [post]
func (h *BlogHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	raw, err := c.GetRawData()
	if err != nil {
		dto.BlogShapeError(c, []string{"failed to read request body"}, "")
		return
	}

	req, shapeErr := appblog.NormalizeRequest(raw)
	if shapeErr != nil {
		metrics.ValidationTotal.WithLabelValues("request_shape", "failed").Inc()
		logger.Warn(ctx, "blog request rejected",
			"issues", strings.Join(shapeErr.Issues, "; "))
		dto.BlogShapeError(c, shapeErr.Issues, shapeErr.RawBody)
		return
	}
	metrics.ValidationTotal.WithLabelValues("request_shape", "ok").Inc()

	result, err := h.pipeline.Run(ctx, req)
	if err != nil {
		logger.Error(ctx, "blog pipeline failed", err,
			"topic", req.Topic, "length", req.Length)
		dto.BlogFault(c, faultDetail(err))
		return
	}

	// 归档失败不阻塞响应，文章本体已经生成。
	if _, archiveErr := h.archiver.Archive(ctx, result); archiveErr != nil {
		logger.Warn(ctx, "article archive failed", "error", archiveErr)
	}

	dto.BlogContent(c, result.Content)
}

// Echo 回显请求体，联调与连通性探测用
// @Summary 回显请求体
// @Tags Blog
// @Accept json
// @Produce json
// @Success 200 {object} dto.EchoResponse
// @Failure 422 {object} dto.BlogShapeErrorResponse
// @Router /echo [post]
func (h *BlogHandler) Echo(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		dto.BlogShapeError(c, []string{"failed to read request body"}, "")
		return
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		dto.Echo(c, nil)
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		dto.BlogShapeError(c, []string{"payload must be a json object"}, string(raw))
		return
	}
	dto.Echo(c, payload)
}

// faultDetail 还原为面向调用方的纯文本错误描述。
func faultDetail(err error) string {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		if appErr.Err != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
		}
		return appErr.Message
	}
	return err.Error()
}
