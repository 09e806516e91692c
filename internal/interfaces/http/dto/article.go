// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"blogsmith-ai-api/internal/domain/entity"
)

// ArticleResponse 成稿归档响应
type ArticleResponse struct {
	ID              string    `json:"id"`
	Topic           string    `json:"topic"`
	Length          int       `json:"length"`
	Title           string    `json:"title,omitempty"`
	Slug            string    `json:"slug,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Excerpt         string    `json:"excerpt,omitempty"`
	Content         string    `json:"content"`
	HTML            string    `json:"html,omitempty"`
	Keywords        []string  `json:"keywords,omitempty"`
	WordCount       int       `json:"word_count"`
	ParagraphCount  int       `json:"paragraph_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// ArticleListItem 列表项，省去正文与 HTML 以控制响应体积
type ArticleListItem struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Title     string    `json:"title,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleListResponse 成稿列表响应
type ArticleListResponse struct {
	Articles []*ArticleListItem `json:"articles"`
}

// ToArticleResponse 实体转响应
func ToArticleResponse(a *entity.Article) *ArticleResponse {
	if a == nil {
		return nil
	}
	return &ArticleResponse{
		ID:              a.ID,
		Topic:           a.Topic,
		Length:          a.Length,
		Title:           a.Title,
		Slug:            a.Slug,
		MetaDescription: a.MetaDescription,
		Excerpt:         a.Excerpt,
		Content:         a.Content,
		HTML:            a.HTML,
		Keywords:        a.Keywords,
		WordCount:       a.WordCount,
		ParagraphCount:  a.ParagraphCount,
		CreatedAt:       a.CreatedAt,
	}
}

// ToArticleListResponse 实体列表转响应
func ToArticleListResponse(articles []*entity.Article) *ArticleListResponse {
	items := make([]*ArticleListItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, &ArticleListItem{
			ID:        a.ID,
			Topic:     a.Topic,
			Title:     a.Title,
			Slug:      a.Slug,
			Excerpt:   a.Excerpt,
			WordCount: a.WordCount,
			CreatedAt: a.CreatedAt,
		})
	}
	return &ArticleListResponse{Articles: items}
}
