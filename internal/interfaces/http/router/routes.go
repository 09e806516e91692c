// Package router 提供 HTTP 路由配置
package router

import (
	"blogsmith-ai-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	articleHandler *handler.ArticleHandler,
	usageHandler *handler.UsageHandler,
) {
	// 文章归档
	articles := v1.Group("/articles")
	{
		articles.GET("", articleHandler.ListArticles)
		articles.GET("/:aid", articleHandler.GetArticle)
		articles.DELETE("/:aid", articleHandler.DeleteArticle)
	}

	// LLM 用量
	usage := v1.Group("/usage")
	{
		usage.GET("/summary", usageHandler.Summary)
	}
}
