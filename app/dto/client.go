package dto

import "encoding/json"

type RegisterRequest struct {
	ClientID   string          `json:"clientId"`
	Hostname   string          `json:"hostname,omitempty"`
	Platform   string          `json:"platform,omitempty"`
	Version    string          `json:"version,omitempty"`
	SystemInfo json.RawMessage `json:"systemInfo,omitempty"`
}

type RegisterResponse struct {
	Success    bool   `json:"success"`
	LicenseKey string `json:"licenseKey"`
	Active     bool   `json:"active"`
	Message    string `json:"message"`
}

type HeartbeatRequest struct {
	ClientID   string          `json:"clientId"`
	LicenseKey string          `json:"licenseKey"`
	SystemInfo json.RawMessage `json:"systemInfo,omitempty"`
	Stats      json.RawMessage `json:"stats,omitempty"`
}

type HeartbeatResponse struct {
	Success         bool             `json:"success"`
	Active          bool             `json:"active"`
	Timestamp       string           `json:"timestamp"`
	Commands        []CommandPayload `json:"commands"`
	UpdateAvailable bool             `json:"updateAvailable"`
	UpdateInfo      any              `json:"updateInfo"`
}

type BlockRequest struct {
	ClientID string `json:"clientId"`
	Action   string `json:"action,omitempty"`
}

// BusinessFailure is the HTTP-200 failure channel: agents poll on a
// schedule and treat these as "try again later", unlike transport errors.
type BusinessFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
