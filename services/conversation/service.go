package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	credentialRepo "agendai/database/repository/credential"
	sessionRepo "agendai/database/repository/session"
	"agendai/models"
	"agendai/services/calendar"
	"agendai/services/messaging"
	"agendai/utils"
)

const (
	appointmentDuration = 30 * time.Minute
	reminderLead        = 2 * time.Hour
)

// ReminderScheduler enqueues a reminder message for later delivery.
// Satisfied by cron.Scheduler.
type ReminderScheduler interface {
	Schedule(to, name, slot string, at time.Time) error
}

// senderLocks hands out one mutex per sender id so two messages from
// the same number can never interleave their read-modify-write of the
// session. Distinct senders proceed in parallel.
type senderLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *senderLocks) get(senderID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[senderID]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[senderID] = lk
	}
	return lk
}

// DefaultConversationService implements ConversationService.
type DefaultConversationService struct {
	Store     sessionRepo.SessionStore
	Creds     credentialRepo.CredentialStore
	Engine    *Engine
	Messenger messaging.Messenger
	// Calendar may be nil when no OAuth client is configured; bookings
	// then skip event creation.
	Calendar calendar.CalendarService
	// Reminders may be nil when the reminder worker is disabled.
	Reminders ReminderScheduler

	locks senderLocks
}

func NewDefaultConversationService(
	store sessionRepo.SessionStore,
	creds credentialRepo.CredentialStore,
	engine *Engine,
	messenger messaging.Messenger,
	cal calendar.CalendarService,
) (*DefaultConversationService, error) {
	if store == nil || creds == nil || engine == nil || messenger == nil {
		return nil, fmt.Errorf("conversation service initialization error: missing dependency")
	}
	return &DefaultConversationService{
		Store:     store,
		Creds:     creds,
		Engine:    engine,
		Messenger: messenger,
		Calendar:  cal,
		locks:     senderLocks{locks: make(map[string]*sync.Mutex)},
	}, nil
}

func (s *DefaultConversationService) HandleInbound(ctx context.Context, senderID, text string) (models.Session, []Reply, error) {
	lk := s.locks.get(senderID)
	lk.Lock()
	defer lk.Unlock()

	sess, err := s.Store.Get(ctx, senderID)
	if err != nil {
		return models.Session{}, nil, fmt.Errorf("HandleInbound: load session for %s: %w", senderID, err)
	}

	out := s.Engine.Advance(senderID, sess, text)

	if out.Session.Step == models.StepIdle {
		err = s.Store.Reset(ctx, senderID)
	} else {
		err = s.Store.Set(ctx, senderID, out.Session)
	}
	if err != nil {
		return models.Session{}, nil, fmt.Errorf("HandleInbound: persist session for %s: %w", senderID, err)
	}

	logger := utils.GetLogger()
	for _, r := range out.Replies {
		if err := s.Messenger.Send(ctx, r.To, r.Text); err != nil {
			logger.Warn("HandleInbound: message delivery failed",
				zap.String("to", r.To), zap.Error(err))
		}
	}

	if out.Booking != nil {
		go s.recordBooking(*out.Booking)
	}

	return out.Session, out.Replies, nil
}

// recordBooking schedules the appointment reminder and writes the
// booking to the clinic calendar when a credential is connected. It
// runs after the session transition has committed; any failure here is
// logged and changes nothing.
func (s *DefaultConversationService) recordBooking(b Booking) {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slot, ok := s.Engine.Catalog.FindByWhen(b.Slot)
	if !ok || slot.Start.IsZero() {
		return
	}

	if s.Reminders != nil {
		if at := slot.Start.Add(-reminderLead); at.After(time.Now()) {
			if err := s.Reminders.Schedule(b.Sender, b.Name, b.Slot, at); err != nil {
				logger.Warn("recordBooking: reminder scheduling failed",
					zap.String("to", b.Sender), zap.Error(err))
			}
		}
	}

	if s.Calendar == nil {
		return
	}

	cred, ok, err := s.Creds.Get(ctx, models.DefaultEntityID)
	if err != nil {
		logger.Warn("recordBooking: credential lookup failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	ref := uuid.New().String()[:8]
	eventID, err := s.Calendar.CreateEvent(ctx, cred, calendar.Event{
		Summary:     fmt.Sprintf("Consulta: %s", b.Name),
		Description: fmt.Sprintf("Telefone: %s\nRef: %s", b.Phone, ref),
		Start:       slot.Start,
		End:         slot.Start.Add(appointmentDuration),
	})
	if err != nil {
		logger.Warn("recordBooking: calendar event creation failed",
			zap.String("slot", b.Slot), zap.Error(err))
		return
	}
	logger.Info("recordBooking: calendar event created",
		zap.String("eventId", eventID), zap.String("ref", ref))
}
