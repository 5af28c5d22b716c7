package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/tovalh/AgenteSigco/app/models"
	"github.com/tovalh/AgenteSigco/config"
	"github.com/tovalh/AgenteSigco/initialize"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var licenseKeyPattern = regexp.MustCompile(`^[0-9A-F]{32}$`)

func newTestApp(t *testing.T, mutate func(*config.Config)) *initialize.App {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Client{}, &models.Command{}))

	cfg, err := config.Load("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}
	return initialize.BuildWithDB(cfg, gdb, zerolog.Nop())
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func register(t *testing.T, app *initialize.App, clientID string) string {
	t.Helper()
	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=register", map[string]any{
		"clientId": clientID,
		"hostname": "host-" + clientID,
		"platform": "linux",
		"version":  "1.0.0",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	return body["licenseKey"].(string)
}

func TestRegisterRequiresPost(t *testing.T) {
	app := newTestApp(t, nil)
	rec, body := doJSON(t, app.Router, http.MethodGet, "/?action=register", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestRegisterRequiresClientID(t *testing.T) {
	app := newTestApp(t, nil)
	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=register", map[string]any{"hostname": "h"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Client ID required", body["error"])
}

func TestRegisterIssuesLicenseKey(t *testing.T) {
	app := newTestApp(t, nil)
	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=register", map[string]any{
		"clientId":   "A1",
		"hostname":   "desk-01",
		"platform":   "windows",
		"version":    "2.1.0",
		"systemInfo": map[string]any{"cpus": 8},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["active"])
	assert.Equal(t, "Client registered successfully", body["message"])
	assert.Regexp(t, licenseKeyPattern, body["licenseKey"])
}

func TestRegisterTwiceKeepsLicenseKey(t *testing.T) {
	app := newTestApp(t, nil)
	key := register(t, app, "A1")

	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=register", map[string]any{
		"clientId": "A1",
		"hostname": "renamed-host",
		"version":  "1.1.0",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, key, body["licenseKey"])
	assert.Equal(t, "Client updated", body["message"])

	var stored models.Client
	require.NoError(t, app.DB.Where("client_id = ?", "A1").First(&stored).Error)
	assert.Equal(t, key, stored.LicenseKey)
	assert.Equal(t, "renamed-host", stored.Hostname)
	assert.Equal(t, "1.1.0", stored.Version)
}

func TestLicenseKeysDifferPerClient(t *testing.T) {
	app := newTestApp(t, nil)
	assert.NotEqual(t, register(t, app, "A1"), register(t, app, "A2"))
}

func TestHeartbeatRequiresFields(t *testing.T) {
	app := newTestApp(t, nil)
	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{"clientId": "A1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Client ID and License Key required", body["error"])
}

func TestHeartbeatLicenseRevoked(t *testing.T) {
	app := newTestApp(t, nil)
	register(t, app, "A1")

	// wrong key for an existing client
	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "A1", "licenseKey": "00000000000000000000000000000000",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "LICENSE_REVOKED", body["error"])

	// unknown client behaves the same
	rec, body = doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "ghost", "licenseKey": "00000000000000000000000000000000",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LICENSE_REVOKED", body["error"])
}

func TestHeartbeatBlockedClient(t *testing.T) {
	app := newTestApp(t, nil)
	key := register(t, app, "A1")

	_, body := doJSON(t, app.Router, http.MethodPost, "/?action=block-client", map[string]any{"clientId": "A1"})
	require.Equal(t, true, body["success"])

	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "A1", "licenseKey": key,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "CLIENT_BLOCKED", body["error"])

	var stored models.Client
	require.NoError(t, app.DB.Where("client_id = ?", "A1").First(&stored).Error)
	assert.Equal(t, 0, stored.HeartbeatCount)
}

func TestHeartbeatUpdatesTelemetry(t *testing.T) {
	app := newTestApp(t, nil)
	key := register(t, app, "A1")

	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId":   "A1",
		"licenseKey": key,
		"systemInfo": map[string]any{"cpus": 4},
		"stats":      map[string]any{"uptime_sec": 120},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["active"])
	assert.Equal(t, false, body["updateAvailable"])
	assert.Nil(t, body["updateInfo"])
	assert.Empty(t, body["commands"])

	var stored models.Client
	require.NoError(t, app.DB.Where("client_id = ?", "A1").First(&stored).Error)
	assert.Equal(t, 1, stored.HeartbeatCount)
	assert.JSONEq(t, `{"uptime_sec":120}`, stored.Stats)
	assert.JSONEq(t, `{"cpus":4}`, stored.SystemInfo)
}

func TestHeartbeatDeliversCommandsExactlyOnce(t *testing.T) {
	app := newTestApp(t, nil)
	key := register(t, app, "A1")

	for _, cmd := range []string{"restart", "update_config"} {
		_, body := doJSON(t, app.Router, http.MethodPost, "/?action=send-command", map[string]any{
			"clientId": "A1", "commandType": cmd, "commandData": map[string]any{"force": true},
		})
		require.Equal(t, true, body["success"])
	}

	_, body := doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "A1", "licenseKey": key,
	})
	cmds := body["commands"].([]any)
	require.Len(t, cmds, 2)
	first := cmds[0].(map[string]any)
	assert.Equal(t, "A1", first["client_id"])
	assert.Equal(t, "sent", first["status"])

	// no rows left pending on the server
	var pending int64
	app.DB.Model(&models.Command{}).Where("status = ?", models.CommandStatusPending).Count(&pending)
	assert.Zero(t, pending)

	// a second heartbeat returns nothing: at-most-once delivery
	_, body = doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "A1", "licenseKey": key,
	})
	assert.Empty(t, body["commands"])
}

func TestDashboardAggregates(t *testing.T) {
	app := newTestApp(t, nil)
	now := time.Now()
	seed := []models.Client{
		{ClientID: "fresh", LicenseKey: "K1", LastSeen: now, Active: true, Status: "active"},
		{ClientID: "stale", LicenseKey: "K2", LastSeen: now.Add(-time.Hour), Active: true, Status: "active"},
		{ClientID: "blocked", LicenseKey: "K3", LastSeen: now.Add(-time.Minute), Active: true, Status: "active"},
	}
	for i := range seed {
		require.NoError(t, app.DB.Create(&seed[i]).Error)
	}
	// gorm skips zero-value fields on insert when the column has a
	// default, so the block flag is flipped explicitly
	require.NoError(t, app.DB.Model(&models.Client{}).Where("client_id = ?", "blocked").Update("active", false).Error)

	rec, body := doJSON(t, app.Router, http.MethodGet, "/?action=dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 3, stats["total_clients"])
	assert.EqualValues(t, 1, stats["active_clients"])
	assert.EqualValues(t, 2, stats["offline_clients"])
	assert.EqualValues(t, 1, stats["blocked_clients"])

	// active + offline partition the list
	assert.EqualValues(t, stats["total_clients"],
		stats["active_clients"].(float64)+stats["offline_clients"].(float64))

	clients := body["clients"].([]any)
	require.Len(t, clients, 3)
	// most recently seen first
	assert.Equal(t, "fresh", clients[0].(map[string]any)["client_id"])
	assert.Equal(t, "blocked", clients[1].(map[string]any)["client_id"])
	assert.Equal(t, "stale", clients[2].(map[string]any)["client_id"])
}

func TestDashboardIdempotent(t *testing.T) {
	app := newTestApp(t, nil)
	register(t, app, "A1")
	register(t, app, "A2")

	_, first := doJSON(t, app.Router, http.MethodGet, "/?action=dashboard", nil)
	_, second := doJSON(t, app.Router, http.MethodGet, "/?action=dashboard", nil)

	f, err := json.Marshal(first["clients"])
	require.NoError(t, err)
	s, err := json.Marshal(second["clients"])
	require.NoError(t, err)
	assert.JSONEq(t, string(f), string(s))
	assert.Equal(t, first["stats"], second["stats"])
}

func TestDashboardDecodesBlobsBestEffort(t *testing.T) {
	app := newTestApp(t, nil)
	broken := models.Client{ClientID: "A1", LicenseKey: "K1", LastSeen: time.Now(), Active: true, SystemInfo: "{not json", Stats: ""}
	require.NoError(t, app.DB.Create(&broken).Error)

	_, body := doJSON(t, app.Router, http.MethodGet, "/?action=dashboard", nil)
	c := body["clients"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{}, c["system_info"])
	assert.Equal(t, map[string]any{}, c["stats"])
}

func TestSendCommandForUnknownClientSucceeds(t *testing.T) {
	app := newTestApp(t, nil)
	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=send-command", map[string]any{
		"clientId": "nobody", "commandType": "ping",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Command sent", body["message"])

	var stored models.Command
	require.NoError(t, app.DB.Where("client_id = ?", "nobody").First(&stored).Error)
	assert.Equal(t, models.CommandStatusPending, stored.Status)
}

func TestSendCommandRequiresPost(t *testing.T) {
	app := newTestApp(t, nil)
	rec, _ := doJSON(t, app.Router, http.MethodGet, "/?action=send-command", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBlockUnknownClientStillReportsSuccess(t *testing.T) {
	app := newTestApp(t, nil)
	rec, body := doJSON(t, app.Router, http.MethodPost, "/?action=block-client", map[string]any{"clientId": "ghost"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Client blocked", body["message"])
}

func TestUnblockMessage(t *testing.T) {
	app := newTestApp(t, nil)
	register(t, app, "A1")
	_, body := doJSON(t, app.Router, http.MethodPost, "/?action=block-client", map[string]any{
		"clientId": "A1", "action": "unblock",
	})
	assert.Equal(t, "Client unblocked", body["message"])

	var stored models.Client
	require.NoError(t, app.DB.Where("client_id = ?", "A1").First(&stored).Error)
	assert.True(t, stored.Active)
}

func TestUnknownActionReturns404(t *testing.T) {
	app := newTestApp(t, nil)
	rec, body := doJSON(t, app.Router, http.MethodGet, "/?action=bogus", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", body["error"])
	assert.NotEmpty(t, body["available"])
}

func TestIndexServesDashboardPage(t *testing.T) {
	app := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "action=dashboard")
}

func TestDebugHiddenByDefault(t *testing.T) {
	app := newTestApp(t, nil)
	rec, _ := doJSON(t, app.Router, http.MethodGet, "/?action=debug", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebugDumpsResolvedConfig(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Debug = true
		cfg.DB.Host = "db.internal"
		cfg.DB.Pass = "secret"
	})
	rec, body := doJSON(t, app.Router, http.MethodGet, "/?action=debug", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resolved := body["resolved_vars"].(map[string]any)
	assert.Contains(t, resolved["dsn"], "db.internal")
	// the password value itself must never appear
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.Equal(t, "SET (6 chars)", resolved["password"])
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	app := newTestApp(t, nil)
	rec, _ := doJSON(t, app.Router, http.MethodGet, "/?action=dashboard", nil)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/?action=register", nil)
	pre := httptest.NewRecorder()
	app.Router.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusOK, pre.Code)
	assert.Empty(t, pre.Body.String())
}

// End-to-end walk through the whole agent lifecycle.
func TestFleetLifecycle(t *testing.T) {
	app := newTestApp(t, nil)

	key := register(t, app, "A1")
	require.Regexp(t, licenseKeyPattern, key)

	// wrong key
	_, body := doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "A1", "licenseKey": "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF",
	})
	require.Equal(t, "LICENSE_REVOKED", body["error"])

	// correct key, empty queue
	_, body = doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "A1", "licenseKey": key,
	})
	require.Equal(t, true, body["success"])
	require.Empty(t, body["commands"])

	// queue one command
	_, body = doJSON(t, app.Router, http.MethodPost, "/?action=send-command", map[string]any{
		"clientId": "A1", "commandType": "collect_logs", "commandData": map[string]any{"lines": 100},
	})
	require.Equal(t, true, body["success"])

	// next heartbeat delivers it, already transitioned to sent
	_, body = doJSON(t, app.Router, http.MethodPost, "/?action=heartbeat", map[string]any{
		"clientId": "A1", "licenseKey": key,
	})
	cmds := body["commands"].([]any)
	require.Len(t, cmds, 1)
	got := cmds[0].(map[string]any)
	assert.Equal(t, "collect_logs", got["command_type"])
	assert.Equal(t, "sent", got["status"])
	assert.Equal(t, map[string]any{"lines": float64(100)}, got["command_data"])
}
