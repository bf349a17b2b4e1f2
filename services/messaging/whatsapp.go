package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppMessenger sends messages through the WhatsApp Cloud API
// (Graph API /{phone-number-id}/messages).
type WhatsAppMessenger struct {
	apiBase string
	phoneID string
	token   string
	client  *http.Client
}

// NewWhatsAppMessenger builds a messenger for the given Cloud API
// phone number id and bearer token. apiBase is the Graph API root,
// e.g. "https://graph.facebook.com/v19.0".
func NewWhatsAppMessenger(apiBase, phoneID, token string) *WhatsAppMessenger {
	return &WhatsAppMessenger{
		apiBase: apiBase,
		phoneID: phoneID,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             outboundText `json:"text"`
}

type outboundText struct {
	Body string `json:"body"`
}

// Send delivers a text message to the given phone number.
func (m *WhatsAppMessenger) Send(ctx context.Context, to, text string) error {
	payload := outboundMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             outboundText{Body: text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp send: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", m.apiBase, m.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp send: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp send: API returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
