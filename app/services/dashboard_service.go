package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tovalh/AgenteSigco/app/dto"
	"github.com/tovalh/AgenteSigco/app/repo"
)

type DashboardService struct {
	clients      *repo.ClientRepository
	onlineWindow time.Duration
	now          func() time.Time
}

func NewDashboardService(clients *repo.ClientRepository, onlineWindow time.Duration) *DashboardService {
	return &DashboardService{clients: clients, onlineWindow: onlineWindow, now: time.Now}
}

// Overview lists every client, most recently seen first, with the
// aggregate counters. A client is active when it was seen inside the
// online window AND is not blocked; everything else counts as offline, so
// the offline bucket mixes stale and blocked clients. Blocked is counted
// separately regardless of recency.
func (s *DashboardService) Overview() ([]dto.DashboardClient, dto.DashboardStats, error) {
	clients, err := s.clients.ListAll()
	if err != nil {
		return nil, dto.DashboardStats{}, fmt.Errorf("list clients: %w", err)
	}

	now := s.now()
	out := make([]dto.DashboardClient, 0, len(clients))
	stats := dto.DashboardStats{TotalClients: len(clients)}
	for _, c := range clients {
		if now.Sub(c.LastSeen) <= s.onlineWindow && c.Active {
			stats.ActiveClients++
		} else {
			stats.OfflineClients++
		}
		if !c.Active {
			stats.BlockedClients++
		}
		out = append(out, dto.DashboardClient{
			ClientID:       c.ClientID,
			Hostname:       c.Hostname,
			Platform:       c.Platform,
			Version:        c.Version,
			CreatedAt:      c.CreatedAt.Format(time.RFC3339),
			LastSeen:       c.LastSeen.Format(time.RFC3339),
			Active:         c.Active,
			Status:         c.Status,
			HeartbeatCount: c.HeartbeatCount,
			SystemInfo:     decodeBlob(c.SystemInfo),
			Stats:          decodeBlob(c.Stats),
		})
	}
	return out, stats, nil
}

// decodeBlob turns a stored JSON column into a raw message for the
// response, falling back to an empty object when the column is empty or
// holds something unparseable.
func decodeBlob(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(s)
}
