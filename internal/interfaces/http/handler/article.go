package handler

import (
	"encoding/json"

	appblog "blogsmith-ai-api/internal/application/blog"
	"blogsmith-ai-api/internal/config"
	"blogsmith-ai-api/internal/domain/entity"
	"blogsmith-ai-api/internal/domain/repository"
	"blogsmith-ai-api/internal/infrastructure/persistence/redis"
	"blogsmith-ai-api/internal/interfaces/http/dto"
	"blogsmith-ai-api/pkg/errors"
	"blogsmith-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ArticleHandler 已归档文章查询接口
type ArticleHandler struct {
	cfg         *config.Config
	articleRepo repository.ArticleRepository
	cache       *redis.Cache
}

// NewArticleHandler 创建 ArticleHandler
func NewArticleHandler(cfg *config.Config, articleRepo repository.ArticleRepository, cache *redis.Cache) *ArticleHandler {
	return &ArticleHandler{
		cfg:         cfg,
		articleRepo: articleRepo,
		cache:       cache,
	}
}

// articleListPage 列表缓存载荷，条目与总数一起缓存保证分页元信息一致。
type articleListPage struct {
	Articles []*entity.Article `json:"articles"`
	Total    int64             `json:"total"`
}

// ListArticles 获取已归档文章列表
// @Summary 获取文章列表
// @Description 按生成时间倒序返回已归档文章
// @Tags Articles
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.ArticleListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()
	pageReq := dto.BindPage(c)

	key := appblog.ArticleListKey(pageReq.Page, pageReq.PageSize)
	raw, err := h.cache.GetOrLoadSafe(ctx, key, h.cfg.Archive.CacheTTL, func() (interface{}, error) {
		articles, total, err := h.articleRepo.List(ctx, repository.NewPagination(pageReq.Page, pageReq.PageSize))
		if err != nil {
			return nil, err
		}
		return &articleListPage{Articles: articles, Total: total}, nil
	})
	if err != nil {
		logger.Error(ctx, "failed to list articles", err)
		dto.InternalError(c, "failed to list articles")
		return
	}

	var page articleListPage
	if err := json.Unmarshal(raw, &page); err != nil {
		logger.Error(ctx, "failed to decode article list cache", err, "key", key)
		dto.InternalError(c, "failed to list articles")
		return
	}

	resp := dto.ToArticleListResponse(page.Articles)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(page.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// GetArticle 获取单篇文章
// @Summary 获取文章详情
// @Tags Articles
// @Accept json
// @Produce json
// @Param aid path string true "文章 ID"
// @Success 200 {object} dto.Response[dto.ArticleResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/articles/{aid} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	ctx := c.Request.Context()
	articleID := dto.BindArticleID(c)

	raw, err := h.cache.GetOrLoadSafe(ctx, appblog.ArticleCacheKey(articleID), h.cfg.Archive.CacheTTL, func() (interface{}, error) {
		return h.articleRepo.GetByID(ctx, articleID)
	})
	if err != nil {
		if errors.IsAppError(err) {
			appErr := errors.AsAppError(err)
			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Code:    appErr.HTTPStatus,
				Message: appErr.Message,
				TraceID: c.GetString("trace_id"),
			})
			return
		}
		logger.Error(ctx, "failed to get article", err)
		dto.InternalError(c, "failed to get article")
		return
	}

	var article entity.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		logger.Error(ctx, "failed to decode article cache", err, "article_id", articleID)
		dto.InternalError(c, "failed to get article")
		return
	}

	dto.Success(c, dto.ToArticleResponse(&article))
}

// DeleteArticle 删除文章
// @Summary 删除文章
// @Tags Articles
// @Accept json
// @Produce json
// @Param aid path string true "文章 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/articles/{aid} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	ctx := c.Request.Context()
	articleID := dto.BindArticleID(c)

	if err := h.articleRepo.Delete(ctx, articleID); err != nil {
		if errors.IsAppError(err) {
			appErr := errors.AsAppError(err)
			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Code:    appErr.HTTPStatus,
				Message: appErr.Message,
				TraceID: c.GetString("trace_id"),
			})
			return
		}
		logger.Error(ctx, "failed to delete article", err)
		dto.InternalError(c, "failed to delete article")
		return
	}

	// 删除后清掉详情与列表缓存，避免读到已删除内容。
	if err := h.cache.Delete(ctx, appblog.ArticleCacheKey(articleID)); err != nil {
		logger.Warn(ctx, "failed to delete article cache", "error", err)
	}
	if err := h.cache.InvalidatePattern(ctx, appblog.ArticleListPattern); err != nil {
		logger.Warn(ctx, "failed to invalidate article list cache", "error", err)
	}

	dto.NoContent(c)
}
