package relay

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler 聊天侧入站消息的 HTTP 接口。
// 频道适配器把用户消息 POST 过来，这里同步转发并把回复原样带回。
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// messageRequest 入站聊天消息。
type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

// messageResponse 回给频道适配器的消息。
type messageResponse struct {
	Reply string `json:"reply"`
}

// Message 接收一条聊天消息并返回生成结果或错误描述
// @Summary 转发聊天消息
// @Tags Relay
// @Accept json
// @Produce json
// @Success 200 {object} messageResponse
// @Failure 400 {object} messageResponse
// @Router /message [post]
func (h *Handler) Message(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Reply: "message is required"})
		return
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		c.JSON(http.StatusBadRequest, messageResponse{Reply: "message is required"})
		return
	}

	reply := h.client.Reply(c.Request.Context(), text)
	c.JSON(http.StatusOK, messageResponse{Reply: reply})
}

// Health 转发服务自身的存活探测
// @Summary 健康检查
// @Tags Relay
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
