package domain

import "time"

// CommunicationLog is an immutable record of an outbound message sent to a
// franchisee or unit contact. Logs are only ever created remotely; the
// mirror never mutates them beyond id-keyed replacement.
type CommunicationLog struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"` // e.g. "email", "whatsapp", "sms"
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject,omitempty"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c CommunicationLog) EntityID() string       { return c.ID }
func (c CommunicationLog) EntityKind() EntityKind { return KindCommunication }
