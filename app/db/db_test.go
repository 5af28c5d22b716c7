package db

import (
	"testing"

	"github.com/tovalh/AgenteSigco/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := config.DB{Host: "db.internal", Port: 13306, User: "fleet", Pass: "hunter2", Name: "fleetdb"}
	assert.Equal(t,
		"fleet:hunter2@tcp(db.internal:13306)/fleetdb?charset=utf8mb4&parseTime=True&loc=Local",
		DSN(cfg))
}
