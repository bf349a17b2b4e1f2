package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"agendai/handlers"
	"agendai/utils"
)

// RegisterWebhookRoutes registers the WhatsApp Cloud API webhook
// endpoints. Meta calls GET for the subscription handshake and POST
// for event deliveries, on the same path.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/webhook", hb.VerifyWebhookHandler)
	r.POST("/webhook", hb.ReceiveWebhookHandler)
}

// RegisterCalendarRoutes registers the Google Calendar authorization
// endpoints used by the clinic operator's browser.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.GET("/connect", hb.CalendarConnectHandler)
		api.GET("/callback", hb.CalendarCallbackHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterHealthRoute(r)
}
