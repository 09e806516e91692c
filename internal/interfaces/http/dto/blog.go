// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"
)

// BlogGenerateResponse 成稿响应。
// 生成端点不走统一响应包装，线上调用方依赖这个裸形状。
type BlogGenerateResponse struct {
	Content string `json:"content"`
}

// BlogFaultResponse 流水线硬失败响应（500）。
type BlogFaultResponse struct {
	Detail string `json:"detail"`
}

// BlogShapeErrorResponse 结构化请求体形状错误响应（422）。
// RawBody 原样回带请求体，便于调用方排查。
type BlogShapeErrorResponse struct {
	Detail  []string `json:"detail"`
	RawBody string   `json:"raw_body"`
}

// EchoResponse 回显响应。
type EchoResponse struct {
	Received any `json:"received"`
}

// BlogContent 返回成稿（200，裸形状）。
func BlogContent(c *gin.Context, content string) {
	c.JSON(200, BlogGenerateResponse{Content: content})
}

// BlogFault 返回流水线硬失败（500，裸形状）。
func BlogFault(c *gin.Context, detail string) {
	c.JSON(500, BlogFaultResponse{Detail: detail})
}

// BlogShapeError 返回请求体形状错误（422，裸形状）。
func BlogShapeError(c *gin.Context, issues []string, rawBody string) {
	c.JSON(422, BlogShapeErrorResponse{Detail: issues, RawBody: rawBody})
}

// Echo 回显请求体（200，裸形状）。
func Echo(c *gin.Context, received any) {
	c.JSON(200, EchoResponse{Received: received})
}
