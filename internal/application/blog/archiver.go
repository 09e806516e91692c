package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"blogsmith-ai-api/internal/config"
	"blogsmith-ai-api/internal/domain/entity"
	"blogsmith-ai-api/internal/domain/repository"
	"blogsmith-ai-api/pkg/logger"
	"blogsmith-ai-api/pkg/metrics"
)

// ArchiveCache 归档侧需要的缓存能力。
type ArchiveCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidatePattern(ctx context.Context, pattern string) error
}

// ArticleListPattern 成稿列表缓存的失效模式。
const ArticleListPattern = "articles:list:*"

// ArticleCacheKey 单篇成稿的缓存键。
func ArticleCacheKey(id string) string {
	return "article:" + id
}

// ArticleListKey 成稿列表页的缓存键。
func ArticleListKey(page, pageSize int) string {
	return fmt.Sprintf("articles:list:%d:%d", page, pageSize)
}

// Archiver 成稿归档：流水线成功后把终稿连同 SEO 元数据落库。
// 归档是旁路，失败只告警，不影响已生成的响应。
type Archiver struct {
	repo     repository.ArticleRepository
	cache    ArchiveCache
	enabled  bool
	cacheTTL time.Duration
}

func NewArchiver(cfg *config.ArchiveConfig, repo repository.ArticleRepository, cache ArchiveCache) *Archiver {
	return &Archiver{
		repo:     repo,
		cache:    cache,
		enabled:  cfg.Enabled,
		cacheTTL: cfg.CacheTTL,
	}
}

// Archive 落库一次成功运行的成稿，并预热单篇缓存、失效列表缓存。
func (a *Archiver) Archive(ctx context.Context, res *PipelineResult) (*entity.Article, error) {
	if a == nil || !a.enabled || a.repo == nil || res == nil {
		return nil, nil
	}

	stats := AnalyzeArticle(res.Content)
	metrics.ArticleWordCount.Observe(float64(stats.WordCount))

	article := &entity.Article{
		Topic:          res.Params.Topic,
		Length:         res.Params.Length,
		Title:          stats.Title,
		Excerpt:        stats.Excerpt,
		Content:        res.Content,
		HTML:           stats.HTML,
		WordCount:      stats.WordCount,
		ParagraphCount: stats.ParagraphCount,
	}
	if res.SEO != nil {
		if article.Title == "" {
			article.Title = res.SEO.Title
		}
		article.Slug = res.SEO.Slug
		article.MetaDescription = res.SEO.MetaDescription
		article.Keywords = pq.StringArray(res.SEO.SEOKeywords)
	}

	if err := a.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	logger.Info(ctx, "article archived",
		"article_id", article.ID, "word_count", article.WordCount)

	if a.cache != nil {
		key := ArticleCacheKey(article.ID)
		if err := a.cache.Set(ctx, key, article, a.cacheTTL); err != nil {
			logger.Warn(ctx, "article cache set failed", "key", key, "error", err.Error())
		}
		if err := a.cache.InvalidatePattern(ctx, ArticleListPattern); err != nil {
			logger.Warn(ctx, "article list invalidation failed", "error", err.Error())
		}
	}
	return article, nil
}
