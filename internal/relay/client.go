// Package relay 聊天代理转发：把聊天消息转成生成请求，再把结果回给聊天侧。
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogsmith-ai-api/internal/config"
	wfnode "blogsmith-ai-api/internal/workflow/node"
	"blogsmith-ai-api/pkg/logger"
)

// 回给聊天侧的错误消息最多带这么多字符的响应体。
const maxErrorBodyRunes = 300

// Client 生成服务的转发客户端。
// Reply 永远返回一条可直接发给聊天用户的消息：生成成功时是正文，
// 失败时是错误描述。转发侧不重试，超时即失败。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.RelayConfig) *Client {
	baseURL := strings.TrimRight(cfg.BackendBaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// generateRequest 提交给生成服务的请求体。
type generateRequest struct {
	Prompt string `json:"prompt"`
}

// generateResponse 生成服务的成功响应体。
type generateResponse struct {
	Content string `json:"content"`
}

// Reply 把一条聊天消息转发给生成服务，返回应回给用户的文本。
func (c *Client) Reply(ctx context.Context, text string) string {
	payload, err := json.Marshal(generateRequest{Prompt: text})
	if err != nil {
		return "Error contacting generator: " + err.Error()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/generate-blog", bytes.NewReader(payload))
	if err != nil {
		return "Error contacting generator: " + err.Error()
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn(ctx, "generator request failed", "error", err.Error())
		return "Error contacting generator: " + err.Error()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn(ctx, "generator response read failed", "error", err.Error())
		return "Error contacting generator: " + err.Error()
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warn(ctx, "generator returned non-200",
			"status", resp.StatusCode,
			"elapsed_ms", time.Since(start).Milliseconds())
		clipped := wfnode.TruncateByRunes(strings.TrimSpace(string(body)), maxErrorBodyRunes)
		return fmt.Sprintf("Request failed (%d). %s", resp.StatusCode, clipped)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		logger.Warn(ctx, "generator response decode failed", "error", err.Error())
		return "Error contacting generator: " + err.Error()
	}
	if out.Content == "" {
		logger.Warn(ctx, "generator returned empty content")
		return "No content returned from generator."
	}

	logger.Info(ctx, "generator reply relayed",
		"content_chars", len(out.Content),
		"elapsed_ms", time.Since(start).Milliseconds())
	return out.Content
}
