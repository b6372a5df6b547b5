// Package alerts implements negative-news alerting for Sentinel.
// It evaluates processed articles against the configured negative sentiment
// labels, delivers email notifications over SMTP, and keeps a delivery
// audit trail in the alert_history table.
package alerts

import (
	"time"

	"github.com/google/uuid"
)

// Alert delivery channel and status values.
const (
	TypeEmail = "email"

	StatusSent   = "sent"
	StatusFailed = "failed"
)

// AlertRecord is an audit entry for a single delivery attempt.
type AlertRecord struct {
	ID           uuid.UUID `json:"id"`
	ArticleID    uuid.UUID `json:"article_id"`
	AlertType    string    `json:"alert_type"`
	Recipient    string    `json:"recipient"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message"`
	SentAt       time.Time `json:"sent_at"`
}

// AppendCommand carries the data needed to record a delivery attempt.
type AppendCommand struct {
	ArticleID    uuid.UUID
	AlertType    string
	Recipient    string
	Subject      string
	Message      string
	Status       string
	ErrorMessage *string
}
