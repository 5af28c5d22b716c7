package repo_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tovalh/AgenteSigco/app/models"
	"github.com/tovalh/AgenteSigco/app/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newCommandRepo(t *testing.T) (*repo.CommandRepository, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Command{}))
	return repo.NewCommandRepository(gdb), gdb
}

func TestDeliverPendingIsFIFO(t *testing.T) {
	r, gdb := newCommandRepo(t)
	base := time.Now().Add(-time.Minute)
	seed := []models.Command{
		{ClientID: "A1", CommandType: "third", Status: models.CommandStatusPending, CreatedAt: base.Add(30 * time.Second)},
		{ClientID: "A1", CommandType: "first", Status: models.CommandStatusPending, CreatedAt: base},
		{ClientID: "A1", CommandType: "second", Status: models.CommandStatusPending, CreatedAt: base.Add(10 * time.Second)},
		{ClientID: "other", CommandType: "elsewhere", Status: models.CommandStatusPending, CreatedAt: base},
	}
	for i := range seed {
		require.NoError(t, gdb.Create(&seed[i]).Error)
	}

	cmds, err := r.DeliverPending("A1")
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, "first", cmds[0].CommandType)
	assert.Equal(t, "second", cmds[1].CommandType)
	assert.Equal(t, "third", cmds[2].CommandType)
	for _, c := range cmds {
		assert.Equal(t, models.CommandStatusSent, c.Status)
	}

	// the other client's queue is untouched
	var untouched models.Command
	require.NoError(t, gdb.Where("client_id = ?", "other").First(&untouched).Error)
	assert.Equal(t, models.CommandStatusPending, untouched.Status)
}

func TestDeliverPendingEmptyQueue(t *testing.T) {
	r, _ := newCommandRepo(t)
	cmds, err := r.DeliverPending("A1")
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestDeliverPendingSkipsSent(t *testing.T) {
	r, gdb := newCommandRepo(t)
	done := models.Command{ClientID: "A1", CommandType: "old", Status: models.CommandStatusSent, CreatedAt: time.Now()}
	require.NoError(t, gdb.Create(&done).Error)

	cmds, err := r.DeliverPending("A1")
	require.NoError(t, err)
	assert.Empty(t, cmds)
}
