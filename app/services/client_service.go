package services

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tovalh/AgenteSigco/app/dto"
	"github.com/tovalh/AgenteSigco/app/models"
	"github.com/tovalh/AgenteSigco/app/repo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business-level heartbeat failures. The controller reports these as
// HTTP 200 with success:false so agents back off instead of crashing.
var (
	ErrLicenseRevoked = errors.New("invalid license")
	ErrClientBlocked  = errors.New("client blocked by administrator")
)

const licenseKeyAttempts = 5

type ClientService struct {
	db       *gorm.DB
	clients  *repo.ClientRepository
	commands *repo.CommandRepository
}

func NewClientService(db *gorm.DB, clients *repo.ClientRepository, commands *repo.CommandRepository) *ClientService {
	return &ClientService{db: db, clients: clients, commands: commands}
}

type RegisterResult struct {
	LicenseKey string
	Active     bool
	Created    bool
}

// Register upserts the client identified by req.ClientID. An existing
// client keeps its license key forever; a new one gets a fresh key checked
// against the table for collisions before insert.
func (s *ClientService) Register(req dto.RegisterRequest) (*RegisterResult, error) {
	existing, err := s.clients.FindByClientID(req.ClientID)
	switch {
	case err == nil:
		if err := s.clients.TouchRegistration(req.ClientID, req.Version, req.Hostname, jsonOrEmpty(req.SystemInfo)); err != nil {
			return nil, fmt.Errorf("update client: %w", err)
		}
		return &RegisterResult{LicenseKey: existing.LicenseKey, Active: existing.Active}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to insert
	default:
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	key, err := s.newLicenseKey()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c := models.Client{
		ClientID:   req.ClientID,
		LicenseKey: key,
		Hostname:   req.Hostname,
		Platform:   req.Platform,
		Version:    req.Version,
		SystemInfo: jsonOrEmpty(req.SystemInfo),
		LastSeen:   now,
		Active:     true,
		Status:     "active",
	}
	if err := s.clients.Create(&c); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return &RegisterResult{LicenseKey: key, Active: true, Created: true}, nil
}

// Heartbeat validates the license pair, refreshes telemetry and drains the
// client's pending command queue. The client update and the command batch
// run in one transaction so a crash cannot leave the counter bumped with
// the queue untouched.
func (s *ClientService) Heartbeat(req dto.HeartbeatRequest) ([]models.Command, error) {
	client, err := s.clients.FindByLicense(req.ClientID, req.LicenseKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLicenseRevoked
	}
	if err != nil {
		return nil, fmt.Errorf("lookup license: %w", err)
	}
	if !client.Active {
		return nil, ErrClientBlocked
	}

	var delivered []models.Command
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.clients.WithTx(tx).RecordHeartbeat(req.ClientID, jsonOrEmpty(req.SystemInfo), jsonOrEmpty(req.Stats)); err != nil {
			return fmt.Errorf("record heartbeat: %w", err)
		}
		cmds, err := s.commands.WithTx(tx).DeliverPending(req.ClientID)
		if err != nil {
			return fmt.Errorf("deliver commands: %w", err)
		}
		delivered = cmds
		return nil
	})
	if err != nil {
		return nil, err
	}
	return delivered, nil
}

// SetBlocked flips the active flag. Unknown client IDs are accepted and
// affect nothing, matching the endpoint's observed contract.
func (s *ClientService) SetBlocked(clientID string, blocked bool) error {
	return s.clients.SetActive(clientID, !blocked)
}

// newLicenseKey derives a 32-character uppercase hex token from a random
// UUID. Uniqueness is enforced by regenerating on collision.
func (s *ClientService) newLicenseKey() (string, error) {
	for i := 0; i < licenseKeyAttempts; i++ {
		u := uuid.New()
		key := strings.ToUpper(hex.EncodeToString(u[:]))
		exists, err := s.clients.LicenseKeyExists(key)
		if err != nil {
			return "", fmt.Errorf("check license key: %w", err)
		}
		if !exists {
			return key, nil
		}
	}
	return "", errors.New("could not generate a unique license key")
}

// jsonOrEmpty normalizes an optional raw JSON field to a stored blob,
// defaulting to an empty object like the writers always have.
func jsonOrEmpty(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
