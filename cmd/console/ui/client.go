package ui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tovalh/AgenteSigco/app/dto"

	"github.com/go-resty/resty/v2"
)

// API is the console's client for the fleet endpoint.
type API struct {
	client  *resty.Client
	baseURL string
}

func NewAPI(baseURL string) *API {
	return &API{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
	}
}

func (a *API) Dashboard() (*dto.DashboardResponse, error) {
	var res dto.DashboardResponse
	resp, err := a.client.R().SetResult(&res).Get(a.baseURL + "/?action=dashboard")
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("dashboard request failed (HTTP %d)", resp.StatusCode())
	}
	return &res, nil
}

func (a *API) Block(clientID, action string) error {
	var res dto.Ack
	_, err := a.client.R().
		SetBody(dto.BlockRequest{ClientID: clientID, Action: action}).
		SetResult(&res).
		Post(a.baseURL + "/?action=block-client")
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("block request rejected")
	}
	return nil
}

func (a *API) SendCommand(clientID, commandType, data string) error {
	var payload json.RawMessage
	if data != "" {
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return fmt.Errorf("invalid data JSON: %w", err)
		}
	}
	var res dto.Ack
	_, err := a.client.R().
		SetBody(dto.SendCommandRequest{ClientID: clientID, CommandType: commandType, CommandData: payload}).
		SetResult(&res).
		Post(a.baseURL + "/?action=send-command")
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("command rejected")
	}
	return nil
}
