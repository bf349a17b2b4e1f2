package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"agendai/models"
)

// GoogleCalendarService implements CalendarService against the Google
// Calendar API v3.
type GoogleCalendarService struct {
	oauth      *oauth2.Config
	calendarID string
}

// NewGoogleCalendarService builds the service from OAuth client
// credentials. calendarID is usually "primary".
func NewGoogleCalendarService(clientID, clientSecret, redirectURL, calendarID string) *GoogleCalendarService {
	return &GoogleCalendarService{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{gcal.CalendarScope},
			Endpoint:     google.Endpoint,
		},
		calendarID: calendarID,
	}
}

// AuthCodeURL returns the consent page URL. The entity id rides in the
// OAuth state parameter so the callback knows which clinic authorized.
func (s *GoogleCalendarService) AuthCodeURL(entityID string) string {
	return s.oauth.AuthCodeURL(entityID, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the authorization code for tokens. The caller fills
// in EntityID before storing the credential.
func (s *GoogleCalendarService) Exchange(ctx context.Context, code string) (models.Credential, error) {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return models.Credential{}, fmt.Errorf("google calendar: code exchange failed: %w", err)
	}
	return models.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

func (s *GoogleCalendarService) service(ctx context.Context, cred models.Credential) (*gcal.Service, error) {
	ts := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
	})
	srv, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("google calendar: build client: %w", err)
	}
	return srv, nil
}

// ListUpcoming returns the next events on the clinic calendar.
func (s *GoogleCalendarService) ListUpcoming(ctx context.Context, cred models.Credential, max int64) ([]Event, error) {
	srv, err := s.service(ctx, cred)
	if err != nil {
		return nil, err
	}
	res, err := srv.Events.List(s.calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		MaxResults(max).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("google calendar: list events: %w", err)
	}

	events := make([]Event, 0, len(res.Items))
	for _, it := range res.Items {
		ev := Event{ID: it.Id, Summary: it.Summary}
		if it.Start != nil && it.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, it.Start.DateTime); err == nil {
				ev.Start = t
			}
		}
		if it.End != nil && it.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, it.End.DateTime); err == nil {
				ev.End = t
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// CreateEvent inserts an event and returns its id.
func (s *GoogleCalendarService) CreateEvent(ctx context.Context, cred models.Credential, event Event) (string, error) {
	srv, err := s.service(ctx, cred)
	if err != nil {
		return "", err
	}
	created, err := srv.Events.Insert(s.calendarID, &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("google calendar: insert event: %w", err)
	}
	return created.Id, nil
}
