package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"agendai/models"
)

// Command words. Comparison is against the trimmed, lowercased text
// and requires full equality; only the calendar trigger phrase uses
// contains-matching.
const (
	cmdSchedule = "agendar"
	cmdCancel   = "cancelar"
	cmdConfirm  = "confirmo"

	calendarTrigger = "conectar agenda"
)

var nonDigits = regexp.MustCompile(`\D`)

// Reply is one outbound message the caller must deliver.
type Reply struct {
	To   string
	Text string
}

// Booking describes a booking confirmed on this turn. Sender is the
// WhatsApp id the dialogue ran on; Phone is the number the user typed.
type Booking struct {
	Sender string
	Name   string
	Phone  string
	Slot   string
}

// Outcome is the result of advancing a session by one inbound message.
type Outcome struct {
	Session models.Session
	Replies []Reply
	// Booking is non-nil only when this turn completed a booking.
	Booking *Booking
}

// Engine is the booking dialogue state machine. Advance is a pure
// function: all side effects (persisting the session, delivering the
// replies) belong to the caller.
type Engine struct {
	Catalog      *SlotCatalog
	NotifyNumber string
	ConnectURL   string
}

// Advance evaluates one inbound message against the session and
// returns the next session plus the replies to send. It never fails:
// unrecognized input lands on a corrective prompt, not an error.
//
// Rules are tried in order: cancel; the rule gated on the current
// step; the calendar trigger phrase; the schedule command (or any
// text from an idle session); fallback. Step-gated rules outrank the
// schedule command, so "agendar" sent while a step is collecting free
// text is consumed as that step's input.
func (e *Engine) Advance(senderID string, sess models.Session, text string) Outcome {
	trimmed := strings.TrimSpace(text)
	norm := strings.ToLower(trimmed)

	if norm == cmdCancel {
		return e.cancel(senderID, sess)
	}

	switch sess.Step {
	case models.StepGetName:
		sess.Data.Name = trimmed
		sess.Step = models.StepGetPhone
		return Outcome{Session: sess, Replies: []Reply{{
			To:   senderID,
			Text: fmt.Sprintf("Obrigado, %s! Agora me diga seu telefone com DDD.", sess.Data.Name),
		}}}

	case models.StepGetPhone:
		sess.Data.Phone = nonDigits.ReplaceAllString(trimmed, "")
		sess.Step = models.StepOfferSlots
		return Outcome{Session: sess, Replies: []Reply{{
			To:   senderID,
			Text: e.slotMenu(),
		}}}

	case models.StepOfferSlots:
		id, err := strconv.Atoi(norm)
		if err == nil {
			if slot, ok := e.Catalog.FindByID(id); ok {
				sess.Data.Slot = slot.When
				sess.Step = models.StepConfirm
				return Outcome{Session: sess, Replies: []Reply{{
					To: senderID,
					Text: fmt.Sprintf("Você escolheu: %s. Responda *confirmo* para confirmar ou *cancelar* para desistir.",
						slot.When),
				}}}
			}
		}
		return Outcome{Session: sess, Replies: []Reply{{
			To:   senderID,
			Text: "Não encontrei esse horário. Responda apenas com o número de uma das opções da lista.",
		}}}

	case models.StepConfirm:
		if norm == cmdConfirm {
			return e.confirm(senderID, sess)
		}
	}

	if e.ConnectURL != "" && strings.Contains(norm, calendarTrigger) {
		return Outcome{Session: sess, Replies: []Reply{{
			To:   senderID,
			Text: "Para conectar a agenda do Google, acesse: " + e.ConnectURL,
		}}}
	}

	if norm == cmdSchedule || sess.Step == models.StepIdle {
		sess = models.NewSession()
		sess.Step = models.StepGetName
		return Outcome{Session: sess, Replies: []Reply{{
			To:   senderID,
			Text: "Olá! Vamos agendar sua consulta. Qual é o seu nome completo?",
		}}}
	}

	return Outcome{Session: sess, Replies: []Reply{{
		To:   senderID,
		Text: "Não entendi. Envie *agendar* para marcar uma consulta ou *cancelar* para cancelar.",
	}}}
}

func (e *Engine) cancel(senderID string, sess models.Session) Outcome {
	replies := []Reply{{
		To:   senderID,
		Text: "Tudo bem, o agendamento foi cancelado. Quando quiser recomeçar, envie *agendar*.",
	}}
	if e.NotifyNumber != "" {
		who := sess.Data.Name
		if who == "" {
			who = senderID
		}
		replies = append(replies, Reply{
			To:   e.NotifyNumber,
			Text: fmt.Sprintf("Agendamento cancelado por %s.", who),
		})
	}
	return Outcome{Session: models.NewSession(), Replies: replies}
}

func (e *Engine) confirm(senderID string, sess models.Session) Outcome {
	booking := &Booking{
		Sender: senderID,
		Name:   sess.Data.Name,
		Phone:  sess.Data.Phone,
		Slot:   sess.Data.Slot,
	}
	replies := []Reply{{
		To:   senderID,
		Text: fmt.Sprintf("Consulta confirmada para %s. Até lá!", booking.Slot),
	}}
	if e.NotifyNumber != "" {
		replies = append(replies, Reply{
			To: e.NotifyNumber,
			Text: fmt.Sprintf("Nova consulta confirmada: %s, telefone %s, horário %s.",
				booking.Name, booking.Phone, booking.Slot),
		})
	}
	return Outcome{Session: models.NewSession(), Replies: replies, Booking: booking}
}

func (e *Engine) slotMenu() string {
	var b strings.Builder
	b.WriteString("Esses são os horários disponíveis:\n")
	for _, s := range e.Catalog.List() {
		fmt.Fprintf(&b, "%d - %s\n", s.ID, s.When)
	}
	b.WriteString("Responda com o número do horário desejado.")
	return b.String()
}
