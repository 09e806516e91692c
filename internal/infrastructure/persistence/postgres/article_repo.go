// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"blogsmith-ai-api/internal/domain/entity"
	"blogsmith-ai-api/internal/domain/repository"
	apperrors "blogsmith-ai-api/pkg/errors"
)

// ArticleRepository 成稿归档仓储实现
type ArticleRepository struct {
	client *Client
}

// NewArticleRepository 创建成稿仓储
func NewArticleRepository(client *Client) *ArticleRepository {
	return &ArticleRepository{client: client}
}

// Create 写入一篇成稿
func (r *ArticleRepository) Create(ctx context.Context, article *entity.Article) error {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.Create")
	defer span.End()

	query := `
		INSERT INTO articles (id, topic, length, title, slug, meta_description, excerpt,
			content, html, keywords, word_count, paragraph_count, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at
	`

	err := r.client.sqlDB.QueryRowContext(ctx, query,
		article.Topic, article.Length, article.Title, article.Slug,
		article.MetaDescription, article.Excerpt, article.Content, article.HTML,
		pq.Array(article.Keywords), article.WordCount, article.ParagraphCount,
	).Scan(&article.ID, &article.CreatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取成稿
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.GetByID")
	defer span.End()

	query := `
		SELECT id, topic, length, title, slug, meta_description, excerpt,
			content, html, keywords, word_count, paragraph_count, created_at
		FROM articles
		WHERE id = $1
	`

	article, err := scanArticle(r.client.sqlDB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrArticleNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// List 按创建时间倒序分页列出成稿
func (r *ArticleRepository) List(ctx context.Context, pagination repository.Pagination) ([]*entity.Article, int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.List")
	defer span.End()

	var total int64
	if err := r.client.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	query := `
		SELECT id, topic, length, title, slug, meta_description, excerpt,
			content, html, keywords, word_count, paragraph_count, created_at
		FROM articles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.client.sqlDB.QueryContext(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []*entity.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			span.RecordError(err)
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, total, nil
}

// Delete 删除成稿
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ArticleRepository.Delete")
	defer span.End()

	res, err := r.client.sqlDB.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrArticleNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*entity.Article, error) {
	var article entity.Article
	var title, slug, metaDescription, excerpt, html sql.NullString
	var keywords pq.StringArray

	err := row.Scan(
		&article.ID, &article.Topic, &article.Length, &title, &slug,
		&metaDescription, &excerpt, &article.Content, &html, &keywords,
		&article.WordCount, &article.ParagraphCount, &article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	article.Title = title.String
	article.Slug = slug.String
	article.MetaDescription = metaDescription.String
	article.Excerpt = excerpt.String
	article.HTML = html.String
	article.Keywords = keywords
	return &article, nil
}
