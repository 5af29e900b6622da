package chat

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry in a conversation log. Entries are never edited once appended.
type Message struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	HTML      string    `json:"html,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromUser reports whether the message was typed by the user.
func (m Message) FromUser() bool {
	return m.Sender == SenderUser
}
