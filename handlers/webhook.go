package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agendai/config"
	"agendai/models"
	"agendai/services/conversation"
	"agendai/utils"
)

// WebhookHandler receives WhatsApp Cloud API webhook traffic.
type WebhookHandler struct {
	conversation conversation.ConversationService
}

func NewWebhookHandler(svc conversation.ConversationService) *WebhookHandler {
	return &WebhookHandler{conversation: svc}
}

// VerifyHandler answers Meta's subscription handshake (GET /webhook).
// The challenge is echoed only when the mode is "subscribe" and the
// supplied token matches the configured secret; an unset secret fails
// closed.
func (h *WebhookHandler) VerifyHandler(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	secret := config.AppConfig.VerifyToken
	if secret == "" || mode != "subscribe" || token != secret {
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// ReceiveHandler processes inbound message events (POST /webhook).
// It always acknowledges with 200: Meta retries non-2xx deliveries,
// and a failure while handling one message must not replay the whole
// batch.
func (h *WebhookHandler) ReceiveHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var event models.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		logger.Warn("webhook: unparseable payload", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.Text == nil {
					continue
				}
				_, _, err := h.conversation.HandleInbound(c.Request.Context(), msg.From, msg.Text.Body)
				if err != nil {
					logger.Error("webhook: failed to handle inbound message",
						zap.String("from", msg.From), zap.Error(err))
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
