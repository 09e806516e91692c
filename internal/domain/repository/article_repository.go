// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"blogsmith-ai-api/internal/domain/entity"
)

// ArticleRepository 成稿归档仓储
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	List(ctx context.Context, pagination Pagination) ([]*entity.Article, int64, error)
	Delete(ctx context.Context, id string) error
}
