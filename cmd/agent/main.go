package main

import (
	"encoding/json"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/tovalh/AgenteSigco/app/dto"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const agentVersion = "1.0.0"

type agent struct {
	client     *resty.Client
	serverURL  string
	clientID   string
	licenseKey string
	startedAt  time.Time
	log        zerolog.Logger
}

func main() {
	_ = godotenv.Load()
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	serverURL := getEnv("SERVER_URL", "http://localhost:8080")
	interval, _ := strconv.Atoi(getEnv("HEARTBEAT_INTERVAL_SEC", "60"))
	if interval <= 0 {
		interval = 60
	}

	hostname, _ := os.Hostname()
	clientID := getEnv("CLIENT_ID", hostname)
	if clientID == "" {
		clientID = uuid.NewString()
	}

	a := &agent{
		client:    resty.New().SetTimeout(15 * time.Second),
		serverURL: serverURL,
		clientID:  clientID,
		startedAt: time.Now(),
		log:       logger,
	}

	for !a.register() {
		time.Sleep(10 * time.Second)
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()
	for ; ; <-ticker.C {
		a.heartbeat()
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func (a *agent) systemInfo() map[string]any {
	hostname, _ := os.Hostname()
	return map[string]any{
		"os":       runtime.GOOS,
		"arch":     runtime.GOARCH,
		"cpus":     runtime.NumCPU(),
		"hostname": hostname,
	}
}

func (a *agent) stats() map[string]any {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]any{
		"uptime_sec": int(time.Since(a.startedAt).Seconds()),
		"goroutines": runtime.NumGoroutine(),
		"alloc_kb":   m.Alloc / 1024,
	}
}

func (a *agent) register() bool {
	hostname, _ := os.Hostname()
	var res dto.RegisterResponse
	resp, err := a.client.R().
		SetBody(map[string]any{
			"clientId":   a.clientID,
			"hostname":   hostname,
			"platform":   runtime.GOOS,
			"version":    agentVersion,
			"systemInfo": a.systemInfo(),
		}).
		SetResult(&res).
		Post(a.serverURL + "/?action=register")
	if err != nil {
		a.log.Error().Err(err).Msg("register failed")
		return false
	}
	if !res.Success {
		a.log.Error().Int("status", resp.StatusCode()).Msg("register rejected")
		return false
	}
	a.licenseKey = res.LicenseKey
	a.log.Info().Str("client_id", a.clientID).Bool("active", res.Active).Str("message", res.Message).Msg("registered")
	return true
}

func (a *agent) heartbeat() {
	body := map[string]any{
		"clientId":   a.clientID,
		"licenseKey": a.licenseKey,
		"systemInfo": a.systemInfo(),
		"stats":      a.stats(),
	}
	resp, err := a.client.R().SetBody(body).Post(a.serverURL + "/?action=heartbeat")
	if err != nil {
		a.log.Error().Err(err).Msg("heartbeat failed")
		return
	}

	var res struct {
		Success  bool                 `json:"success"`
		Error    string               `json:"error"`
		Commands []dto.CommandPayload `json:"commands"`
	}
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		a.log.Error().Err(err).Msg("heartbeat response unreadable")
		return
	}

	if !res.Success {
		switch res.Error {
		case "LICENSE_REVOKED":
			// the server forgot about us; re-register to get a key back
			a.log.Warn().Msg("license revoked, re-registering")
			a.register()
		case "CLIENT_BLOCKED":
			a.log.Warn().Msg("blocked by administrator, standing by")
		default:
			a.log.Error().Str("error", res.Error).Msg("heartbeat rejected")
		}
		return
	}

	// Command execution lives outside this process; received commands are
	// only surfaced in the log.
	for _, cmd := range res.Commands {
		a.log.Info().
			Uint("id", cmd.ID).
			Str("type", cmd.CommandType).
			RawJSON("data", cmd.CommandData).
			Msg("command received")
	}
}
