package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tovalh/AgenteSigco/app/dto"
	"github.com/tovalh/AgenteSigco/app/models"
	"github.com/tovalh/AgenteSigco/app/services"
	"github.com/tovalh/AgenteSigco/config"
	"github.com/tovalh/AgenteSigco/web"
)

var availableActions = []string{
	"?action=register",
	"?action=heartbeat",
	"?action=dashboard",
	"?action=send-command",
	"?action=block-client",
	"?action=print-ticket",
}

type APIController struct {
	Clients   *services.ClientService
	Commands  *services.CommandService
	Dashboard *services.DashboardService
	Cfg       *config.Config
}

func NewAPIController(clients *services.ClientService, commands *services.CommandService, dashboard *services.DashboardService, cfg *config.Config) *APIController {
	return &APIController{Clients: clients, Commands: commands, Dashboard: dashboard, Cfg: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Index serves the embedded dashboard page on the bare route.
func (c *APIController) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(web.Dashboard)
}

// NotFound answers any unrecognized action with the action catalogue.
func (c *APIController) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":     "Endpoint not found",
		"available": availableActions,
	})
}

// Register handles ?action=register.
func (c *APIController) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req dto.RegisterRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "Client ID required")
		return
	}

	res, err := c.Clients.Register(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed: "+err.Error())
		return
	}
	msg := "Client updated"
	if res.Created {
		msg = "Client registered successfully"
	}
	writeJSON(w, http.StatusOK, dto.RegisterResponse{
		Success:    true,
		LicenseKey: res.LicenseKey,
		Active:     res.Active,
		Message:    msg,
	})
}

// Heartbeat handles ?action=heartbeat. License and block failures are
// business-level: HTTP 200 with success:false, so the agent keeps polling.
func (c *APIController) Heartbeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req dto.HeartbeatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.ClientID == "" || req.LicenseKey == "" {
		writeError(w, http.StatusBadRequest, "Client ID and License Key required")
		return
	}

	cmds, err := c.Clients.Heartbeat(req)
	switch {
	case errors.Is(err, services.ErrLicenseRevoked):
		writeJSON(w, http.StatusOK, dto.BusinessFailure{Error: "LICENSE_REVOKED", Message: "Invalid license"})
		return
	case errors.Is(err, services.ErrClientBlocked):
		writeJSON(w, http.StatusOK, dto.BusinessFailure{Error: "CLIENT_BLOCKED", Message: "Client blocked by administrator"})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Heartbeat failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HeartbeatResponse{
		Success:         true,
		Active:          true,
		Timestamp:       time.Now().Format(time.RFC3339),
		Commands:        commandPayloads(cmds),
		UpdateAvailable: false,
		UpdateInfo:      nil,
	})
}

// DashboardView handles ?action=dashboard.
func (c *APIController) DashboardView(w http.ResponseWriter, r *http.Request) {
	clients, stats, err := c.Dashboard.Overview()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Dashboard failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.DashboardResponse{
		Success:   true,
		Clients:   clients,
		Stats:     stats,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// SendCommand handles ?action=send-command.
func (c *APIController) SendCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req dto.SendCommandRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := c.Commands.Enqueue(req.ClientID, req.CommandType, req.CommandData); err != nil {
		writeError(w, http.StatusInternalServerError, "Command failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.Ack{Success: true, Message: "Command sent"})
}

// BlockClient handles ?action=block-client. Any action other than "block"
// unblocks; the default is "block".
func (c *APIController) BlockClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req dto.BlockRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	action := req.Action
	if action == "" {
		action = "block"
	}

	if err := c.Clients.SetBlocked(req.ClientID, action == "block"); err != nil {
		writeError(w, http.StatusInternalServerError, "Block action failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.Ack{Success: true, Message: fmt.Sprintf("Client %sed", action)})
}

// Debug handles ?action=debug: a dump of the resolved connection config
// for diagnosing deployment environments. The password itself never
// leaves the process, only whether it is set and how long it is.
func (c *APIController) Debug(w http.ResponseWriter, r *http.Request) {
	passInfo := "NOT_SET"
	if c.Cfg.DB.Pass != "" {
		passInfo = fmt.Sprintf("SET (%d chars)", len(c.Cfg.DB.Pass))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"resolved_vars": map[string]any{
			"dsn":      fmt.Sprintf("mysql:host=%s;port=%d;dbname=%s", c.Cfg.DB.Host, c.Cfg.DB.Port, c.Cfg.DB.Name),
			"username": c.Cfg.DB.User,
			"password": passInfo,
		},
	})
}

func commandPayloads(cmds []models.Command) []dto.CommandPayload {
	out := make([]dto.CommandPayload, 0, len(cmds))
	for _, cmd := range cmds {
		data := json.RawMessage(cmd.CommandData)
		if len(data) == 0 || !json.Valid(data) {
			data = json.RawMessage("{}")
		}
		out = append(out, dto.CommandPayload{
			ID:          cmd.ID,
			ClientID:    cmd.ClientID,
			CommandType: cmd.CommandType,
			CommandData: data,
			Status:      cmd.Status,
			CreatedAt:   cmd.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
