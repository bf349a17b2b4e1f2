package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialRepo "agendai/database/repository/credential"
	"agendai/models"
	"agendai/services/calendar"
)

type stubCalendar struct {
	exchangeErr error
	listErr     error
}

func (s *stubCalendar) AuthCodeURL(entityID string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + entityID
}

func (s *stubCalendar) Exchange(_ context.Context, code string) (models.Credential, error) {
	if s.exchangeErr != nil {
		return models.Credential{}, s.exchangeErr
	}
	return models.Credential{AccessToken: "tok-" + code, RefreshToken: "refresh-" + code}, nil
}

func (s *stubCalendar) ListUpcoming(context.Context, models.Credential, int64) ([]calendar.Event, error) {
	return nil, s.listErr
}

func (s *stubCalendar) CreateEvent(context.Context, models.Credential, calendar.Event) (string, error) {
	return "", errors.New("not implemented")
}

func newCalendarRouter(svc calendar.CalendarService, store credentialRepo.CredentialStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCalendarHandler(svc, store)
	r := gin.New()
	r.GET("/api/calendar/connect", h.ConnectHandler)
	r.GET("/api/calendar/callback", h.CallbackHandler)
	return r
}

func TestConnectRedirectsWithEntityState(t *testing.T) {
	r := newCalendarRouter(&stubCalendar{}, credentialRepo.NewMemoryCredentialStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/connect?entity=clinic-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "state=clinic-1")
}

func TestConnectDefaultsEntity(t *testing.T) {
	r := newCalendarRouter(&stubCalendar{}, credentialRepo.NewMemoryCredentialStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/connect", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "state="+models.DefaultEntityID)
}

func TestCallbackStoresCredential(t *testing.T) {
	store := credentialRepo.NewMemoryCredentialStore()
	r := newCalendarRouter(&stubCalendar{}, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/callback?code=abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cred, ok, err := store.Get(context.Background(), models.DefaultEntityID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", cred.AccessToken)
	assert.Equal(t, models.DefaultEntityID, cred.EntityID)
}

func TestCallbackOverwritesOnReauthorization(t *testing.T) {
	store := credentialRepo.NewMemoryCredentialStore()
	r := newCalendarRouter(&stubCalendar{}, store)

	for _, code := range []string{"first", "second"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/calendar/callback?code="+code, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	cred, ok, err := store.Get(context.Background(), models.DefaultEntityID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-second", cred.AccessToken)
}

func TestCallbackKeepsEntitiesIndependent(t *testing.T) {
	store := credentialRepo.NewMemoryCredentialStore()
	r := newCalendarRouter(&stubCalendar{}, store)

	for _, entity := range []string{"clinic-a", "clinic-b"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/calendar/callback?code="+entity+"&state="+entity, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	a, ok, err := store.Get(context.Background(), "clinic-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-clinic-a", a.AccessToken)

	b, ok, err := store.Get(context.Background(), "clinic-b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-clinic-b", b.AccessToken)
}

func TestCallbackExchangeFailureStoresNothing(t *testing.T) {
	store := credentialRepo.NewMemoryCredentialStore()
	r := newCalendarRouter(&stubCalendar{exchangeErr: errors.New("invalid_grant")}, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/callback?code=bad", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	_, ok, err := store.Get(context.Background(), models.DefaultEntityID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCallbackMissingCode(t *testing.T) {
	r := newCalendarRouter(&stubCalendar{}, credentialRepo.NewMemoryCredentialStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/callback", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackValidationFailureStillStores(t *testing.T) {
	store := credentialRepo.NewMemoryCredentialStore()
	r := newCalendarRouter(&stubCalendar{listErr: errors.New("quota exceeded")}, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/callback?code=abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, ok, err := store.Get(context.Background(), models.DefaultEntityID)
	require.NoError(t, err)
	assert.True(t, ok)
}
