// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// Article 生成成稿的归档实体。
// Keywords 落库为 text[]，HTML 为渲染副本，源文本始终以 Content 为准。
type Article struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Topic           string         `json:"topic" gorm:"type:varchar(255);not null"`
	Length          int            `json:"length" gorm:"not null;default:0"`
	Title           string         `json:"title,omitempty" gorm:"type:varchar(255)"`
	Slug            string         `json:"slug,omitempty" gorm:"type:varchar(255);index"`
	MetaDescription string         `json:"meta_description,omitempty" gorm:"type:text"`
	Excerpt         string         `json:"excerpt,omitempty" gorm:"type:text"`
	Content         string         `json:"content" gorm:"type:text;not null"`
	HTML            string         `json:"html,omitempty" gorm:"type:text"`
	Keywords        pq.StringArray `json:"keywords,omitempty" gorm:"type:text[]"`
	WordCount       int            `json:"word_count" gorm:"not null;default:0"`
	ParagraphCount  int            `json:"paragraph_count" gorm:"not null;default:0"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}
