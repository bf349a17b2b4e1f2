// File: agendai/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// WhatsApp webhook endpoints.
	VerifyWebhookHandler  gin.HandlerFunc
	ReceiveWebhookHandler gin.HandlerFunc

	// Calendar authorization endpoints.
	CalendarConnectHandler  gin.HandlerFunc
	CalendarCallbackHandler gin.HandlerFunc
}
