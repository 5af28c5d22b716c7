package models

import "time"

// Command statuses. Pending rows are drained by the owning client's next
// heartbeat and flipped to sent in one batch. There is no third state:
// Result and ExecutedAt exist in the schema but no handler writes them.
const (
	CommandStatusPending = "pending"
	CommandStatusSent    = "sent"
)

// Command is one instruction queued for a client. CommandType is opaque to
// the server and interpreted by the agent.
type Command struct {
	ID          uint       `gorm:"primaryKey"`
	ClientID    string     `gorm:"column:client_id;size:64;index;not null"`
	CommandType string     `gorm:"size:50;not null"`
	CommandData string     `gorm:"type:longtext"`
	Status      string     `gorm:"size:20;index;default:pending"`
	Result      string     `gorm:"type:longtext"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	ExecutedAt  *time.Time
}

func (Command) TableName() string { return "agente_commands" }
