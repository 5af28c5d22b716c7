package repo

import (
	"time"

	"github.com/tovalh/AgenteSigco/app/models"

	"gorm.io/gorm"
)

type ClientRepository struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) *ClientRepository { return &ClientRepository{db: db} }

// WithTx returns a repository bound to tx so callers can group writes with
// other repositories in one transaction.
func (r *ClientRepository) WithTx(tx *gorm.DB) *ClientRepository { return &ClientRepository{db: tx} }

func (r *ClientRepository) FindByClientID(clientID string) (*models.Client, error) {
	var c models.Client
	if err := r.db.Where("client_id = ?", clientID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByLicense matches the exact (client_id, license_key) pair. A wrong
// key behaves the same as an unknown client.
func (r *ClientRepository) FindByLicense(clientID, licenseKey string) (*models.Client, error) {
	var c models.Client
	if err := r.db.Where("client_id = ? AND license_key = ?", clientID, licenseKey).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(c *models.Client) error {
	return r.db.Create(c).Error
}

func (r *ClientRepository) LicenseKeyExists(key string) (bool, error) {
	var n int64
	if err := r.db.Model(&models.Client{}).Where("license_key = ?", key).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// TouchRegistration refreshes the descriptive fields on re-registration.
// The license key and created_at are never touched.
func (r *ClientRepository) TouchRegistration(clientID, version, hostname, systemInfo string) error {
	return r.db.Model(&models.Client{}).
		Where("client_id = ?", clientID).
		Updates(map[string]any{
			"last_seen":   time.Now(),
			"version":     version,
			"hostname":    hostname,
			"system_info": systemInfo,
			"status":      "active",
		}).Error
}

// RecordHeartbeat overwrites the telemetry blobs wholesale and bumps the
// heartbeat counter by one.
func (r *ClientRepository) RecordHeartbeat(clientID, systemInfo, stats string) error {
	return r.db.Model(&models.Client{}).
		Where("client_id = ?", clientID).
		Updates(map[string]any{
			"last_seen":       time.Now(),
			"system_info":     systemInfo,
			"stats":           stats,
			"status":          "active",
			"heartbeat_count": gorm.Expr("heartbeat_count + ?", 1),
		}).Error
}

// SetActive flips the block flag. Updating an unknown client_id affects
// zero rows and is not an error.
func (r *ClientRepository) SetActive(clientID string, active bool) error {
	return r.db.Model(&models.Client{}).
		Where("client_id = ?", clientID).
		Update("active", active).Error
}

func (r *ClientRepository) ListAll() ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.Order("last_seen DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}
