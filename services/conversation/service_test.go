package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialRepo "agendai/database/repository/credential"
	sessionRepo "agendai/database/repository/session"
	"agendai/models"
	"agendai/services/calendar"
)

type fakeMessenger struct {
	mu   sync.Mutex
	sent []Reply
	err  error
}

func (m *fakeMessenger) Send(_ context.Context, to, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Reply{To: to, Text: text})
	return m.err
}

type fakeCalendar struct {
	mu      sync.Mutex
	created []calendar.Event
	err     error
}

func (f *fakeCalendar) AuthCodeURL(string) string { return "https://example.com/auth" }

func (f *fakeCalendar) Exchange(context.Context, string) (models.Credential, error) {
	return models.Credential{}, errors.New("not implemented")
}

func (f *fakeCalendar) ListUpcoming(context.Context, models.Credential, int64) ([]calendar.Event, error) {
	return nil, nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, _ models.Credential, ev calendar.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, ev)
	return "evt-1", nil
}

func newTestService(t *testing.T, messenger *fakeMessenger, cal calendar.CalendarService) *DefaultConversationService {
	t.Helper()
	svc, err := NewDefaultConversationService(
		sessionRepo.NewMemorySessionStore(),
		credentialRepo.NewMemoryCredentialStore(),
		testEngine(),
		messenger,
		cal,
	)
	require.NoError(t, err)
	return svc
}

func TestHandleInboundFullFlow(t *testing.T) {
	messenger := &fakeMessenger{}
	svc := newTestService(t, messenger, nil)
	ctx := context.Background()

	steps := []struct {
		text     string
		wantStep models.Step
	}{
		{"agendar", models.StepGetName},
		{"Maria Silva", models.StepGetPhone},
		{"(11) 91234-5678", models.StepOfferSlots},
		{"2", models.StepConfirm},
		{"confirmo", models.StepIdle},
	}
	for _, s := range steps {
		sess, replies, err := svc.HandleInbound(ctx, testSender, s.text)
		require.NoError(t, err)
		assert.Equal(t, s.wantStep, sess.Step, "after %q", s.text)
		assert.NotEmpty(t, replies)
	}

	// The store was reset by the completed booking.
	stored, err := svc.Store.Get(ctx, testSender)
	require.NoError(t, err)
	assert.Equal(t, models.StepIdle, stored.Step)
	assert.Equal(t, models.SessionData{}, stored.Data)

	// One reply per turn plus the clinic notice on confirm.
	assert.Len(t, messenger.sent, 6)
	last := messenger.sent[len(messenger.sent)-1]
	assert.Equal(t, testNotify, last.To)
	assert.Contains(t, last.Text, "Maria Silva")
}

func TestDeliveryFailureDoesNotRollBack(t *testing.T) {
	messenger := &fakeMessenger{err: errors.New("network down")}
	svc := newTestService(t, messenger, nil)
	ctx := context.Background()

	sess, _, err := svc.HandleInbound(ctx, testSender, "agendar")
	require.NoError(t, err)
	assert.Equal(t, models.StepGetName, sess.Step)

	stored, err := svc.Store.Get(ctx, testSender)
	require.NoError(t, err)
	assert.Equal(t, models.StepGetName, stored.Step)
}

func TestSendersAreIndependent(t *testing.T) {
	messenger := &fakeMessenger{}
	svc := newTestService(t, messenger, nil)
	ctx := context.Background()

	_, _, err := svc.HandleInbound(ctx, "sender-a", "agendar")
	require.NoError(t, err)
	_, _, err = svc.HandleInbound(ctx, "sender-a", "Ana")
	require.NoError(t, err)

	sessB, _, err := svc.HandleInbound(ctx, "sender-b", "agendar")
	require.NoError(t, err)
	assert.Equal(t, models.StepGetName, sessB.Step)

	sessA, err := svc.Store.Get(ctx, "sender-a")
	require.NoError(t, err)
	assert.Equal(t, models.StepGetPhone, sessA.Step)
	assert.Equal(t, "Ana", sessA.Data.Name)
}

func TestRecordBookingCreatesEvent(t *testing.T) {
	messenger := &fakeMessenger{}
	cal := &fakeCalendar{}
	svc := newTestService(t, messenger, cal)

	start := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	svc.Engine.Catalog = NewSlotCatalog([]models.Slot{
		{ID: 2, When: "Amanhã 10:30", Start: start},
	})
	require.NoError(t, svc.Creds.Put(context.Background(), models.DefaultEntityID, models.Credential{
		EntityID:    models.DefaultEntityID,
		AccessToken: "ya29.token",
	}))

	svc.recordBooking(Booking{Name: "Maria Silva", Phone: "11912345678", Slot: "Amanhã 10:30"})

	require.Len(t, cal.created, 1)
	ev := cal.created[0]
	assert.Contains(t, ev.Summary, "Maria Silva")
	assert.Contains(t, ev.Description, "11912345678")
	assert.Equal(t, start, ev.Start)
	assert.Equal(t, start.Add(appointmentDuration), ev.End)
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []struct {
		To, Name, Slot string
		At             time.Time
	}
}

func (f *fakeScheduler) Schedule(to, name, slot string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, struct {
		To, Name, Slot string
		At             time.Time
	}{to, name, slot, at})
	return nil
}

func TestRecordBookingSchedulesReminder(t *testing.T) {
	messenger := &fakeMessenger{}
	svc := newTestService(t, messenger, nil)
	scheduler := &fakeScheduler{}
	svc.Reminders = scheduler

	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	svc.Engine.Catalog = NewSlotCatalog([]models.Slot{
		{ID: 1, When: "Amanhã 10:30", Start: start},
	})

	svc.recordBooking(Booking{Sender: testSender, Name: "Maria Silva", Phone: "11912345678", Slot: "Amanhã 10:30"})

	require.Len(t, scheduler.scheduled, 1)
	got := scheduler.scheduled[0]
	assert.Equal(t, testSender, got.To)
	assert.Equal(t, "Amanhã 10:30", got.Slot)
	assert.Equal(t, start.Add(-reminderLead), got.At)
}

func TestRecordBookingWithoutCredentialIsNoop(t *testing.T) {
	messenger := &fakeMessenger{}
	cal := &fakeCalendar{}
	svc := newTestService(t, messenger, cal)

	svc.recordBooking(Booking{Name: "Maria Silva", Phone: "11912345678", Slot: "Amanhã 10:30"})

	assert.Empty(t, cal.created)
}
