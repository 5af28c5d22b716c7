package dto

import "encoding/json"

type DashboardClient struct {
	ClientID       string          `json:"client_id"`
	Hostname       string          `json:"hostname"`
	Platform       string          `json:"platform"`
	Version        string          `json:"version"`
	CreatedAt      string          `json:"created_at"`
	LastSeen       string          `json:"last_seen"`
	Active         bool            `json:"active"`
	Status         string          `json:"status"`
	HeartbeatCount int             `json:"heartbeat_count"`
	SystemInfo     json.RawMessage `json:"system_info"`
	Stats          json.RawMessage `json:"stats"`
}

// DashboardStats are the aggregate counters. Active and offline partition
// the full client list; blocked is counted independently of recency, so a
// blocked-but-recent client shows up in both offline and blocked.
type DashboardStats struct {
	TotalClients   int `json:"total_clients"`
	ActiveClients  int `json:"active_clients"`
	OfflineClients int `json:"offline_clients"`
	BlockedClients int `json:"blocked_clients"`
}

type DashboardResponse struct {
	Success   bool              `json:"success"`
	Clients   []DashboardClient `json:"clients"`
	Stats     DashboardStats    `json:"stats"`
	Timestamp string            `json:"timestamp"`
}
