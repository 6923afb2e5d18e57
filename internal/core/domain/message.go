package domain

import "time"

// MessageStatusPending is assigned when a message is created without a status.
const MessageStatusPending = "pending"

// Message is a family-member message. User is the owning account and never
// changes after creation; Helper references the helper account it is about.
type Message struct {
	ID         string     `json:"id"`
	Helper     string     `json:"helper"`
	User       string     `json:"user"`
	Patient    string     `json:"patient,omitempty"`
	Email      string     `json:"email,omitempty"`
	Body       string     `json:"body,omitempty"`
	Status     string     `json:"status"`
	Suspicious bool       `json:"suspicious"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// OwnedBy reports whether userID owns the message.
func (m *Message) OwnedBy(userID string) bool {
	return m.User == userID
}

// MessagePatch carries the mutable fields of a message. The owner is
// deliberately absent.
type MessagePatch struct {
	Status *string
	Helper *string
}
