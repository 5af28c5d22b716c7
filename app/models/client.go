package models

import "time"

// Client is one registered agent installation. The SystemInfo and Stats
// columns hold raw JSON written by the agent; the server never interprets
// them.
type Client struct {
	ID             uint      `gorm:"primaryKey"`
	ClientID       string    `gorm:"column:client_id;uniqueIndex;size:64;not null"`
	LicenseKey     string    `gorm:"size:32;not null"`
	Hostname       string    `gorm:"size:255"`
	Platform       string    `gorm:"size:50"`
	Version        string    `gorm:"size:20"`
	SystemInfo     string    `gorm:"type:longtext"`
	Stats          string    `gorm:"type:longtext"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	LastSeen       time.Time
	Active         bool   `gorm:"default:true"`
	Status         string `gorm:"size:20;default:active"`
	HeartbeatCount int    `gorm:"default:0"`
}

func (Client) TableName() string { return "agente_clients" }
