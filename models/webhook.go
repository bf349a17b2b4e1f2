package models

import "encoding/json"

// WebhookEvent is the WhatsApp Cloud API webhook payload, reduced to
// the fields the bot reads. Meta nests every delivery under
// entry -> changes -> value.
type WebhookEvent struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Messages         []InboundMessage  `json:"messages"`
	Contacts         []WebhookContact  `json:"contacts"`
	Metadata         WebhookMetadata   `json:"metadata"`
	Statuses         []json.RawMessage `json:"statuses"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// InboundMessage is one user message inside a webhook delivery. Only
// text messages carry a Text body; other types (media, reactions) are
// ignored by the bot.
type InboundMessage struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *MessageText `json:"text,omitempty"`
}

type MessageText struct {
	Body string `json:"body"`
}
