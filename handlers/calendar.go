package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	credentialRepo "agendai/database/repository/credential"
	"agendai/models"
	"agendai/services/calendar"
	"agendai/utils"
)

// CalendarHandler drives the Google Calendar authorization flow for
// the clinic operator.
type CalendarHandler struct {
	calendar calendar.CalendarService
	creds    credentialRepo.CredentialStore
}

func NewCalendarHandler(svc calendar.CalendarService, creds credentialRepo.CredentialStore) *CalendarHandler {
	return &CalendarHandler{calendar: svc, creds: creds}
}

// ConnectHandler redirects the operator to the Google consent page.
// The clinic entity id travels in the OAuth state parameter.
func (h *CalendarHandler) ConnectHandler(c *gin.Context) {
	entity := c.DefaultQuery("entity", models.DefaultEntityID)
	c.Redirect(http.StatusFound, h.calendar.AuthCodeURL(entity))
}

// CallbackHandler completes the OAuth exchange. A failed exchange
// surfaces as a server error and stores nothing; a successful one
// stores the credential (overwriting any prior record for the entity)
// and validates it with a read-only listing.
func (h *CalendarHandler) CallbackHandler(c *gin.Context) {
	logger := utils.GetLogger()

	code := c.Query("code")
	if code == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing authorization code", "")
		return
	}
	entity := c.Query("state")
	if entity == "" {
		entity = models.DefaultEntityID
	}

	ctx := c.Request.Context()
	cred, err := h.calendar.Exchange(ctx, code)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "authorization exchange failed", err.Error())
		return
	}
	cred.EntityID = entity

	if err := h.creds.Put(ctx, entity, cred); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to store credential", err.Error())
		return
	}

	// Credential sanity check; a failure here is logged only, the
	// completed exchange stays stored.
	if events, err := h.calendar.ListUpcoming(ctx, cred, 5); err != nil {
		logger.Warn("calendar callback: validation listing failed",
			zap.String("entity", entity), zap.Error(err))
	} else {
		logger.Info("calendar connected",
			zap.String("entity", entity), zap.Int("upcomingEvents", len(events)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "connected", "entity": entity})
}
