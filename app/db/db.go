package db

import (
	"fmt"

	"github.com/tovalh/AgenteSigco/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DSN builds the go-sql-driver connection string for the fleet database.
// parseTime is required so last_seen and created_at scan into time.Time.
func DSN(cfg config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
}

// Connect opens the MySQL database described by cfg.
func Connect(cfg config.DB) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{})
}
