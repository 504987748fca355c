package models

import (
	"time"
)

// OutboxEvent is a domain event recorded in the same transaction as the
// change it describes and relayed to the message broker afterwards.
type OutboxEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Type      string    `gorm:"type:varchar(16);not null;column:type"`
	Key       string    `gorm:"type:varchar(64);not null;column:event_key"`
	Payload   string    `gorm:"type:text;not null;column:payload"`
	Status    int16     `gorm:"type:smallint;not null;default:0;index:outbox_status_ix;column:status"`
	Retry     int       `gorm:"not null;default:0;column:retry"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for OutboxEvent
func (OutboxEvent) TableName() string {
	return "outbox_events"
}

// Outbox status constants
const (
	OutboxPending int16 = 0
	OutboxSent    int16 = 1
	OutboxFailed  int16 = 2
)

// Outbox event types
const (
	EventFollow   = "follow"
	EventUnfollow = "unfollow"
	EventComment  = "comment"
	EventPost     = "post"
)
