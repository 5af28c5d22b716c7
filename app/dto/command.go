package dto

import "encoding/json"

type SendCommandRequest struct {
	ClientID    string          `json:"clientId"`
	CommandType string          `json:"commandType"`
	CommandData json.RawMessage `json:"commandData,omitempty"`
}

// CommandPayload is a queued command as delivered to the agent inside a
// heartbeat response.
type CommandPayload struct {
	ID          uint            `json:"id"`
	ClientID    string          `json:"client_id"`
	CommandType string          `json:"command_type"`
	CommandData json.RawMessage `json:"command_data"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
}
