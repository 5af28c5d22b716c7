package repo

import (
	"github.com/tovalh/AgenteSigco/app/models"

	"gorm.io/gorm"
)

type CommandRepository struct{ db *gorm.DB }

func NewCommandRepository(db *gorm.DB) *CommandRepository { return &CommandRepository{db: db} }

func (r *CommandRepository) WithTx(tx *gorm.DB) *CommandRepository {
	return &CommandRepository{db: tx}
}

func (r *CommandRepository) Create(cmd *models.Command) error {
	return r.db.Create(cmd).Error
}

// DeliverPending claims every pending command for the client in enqueue
// order and marks the whole batch sent. Each command is delivered at most
// once: rows leave "pending" here and never come back.
func (r *CommandRepository) DeliverPending(clientID string) ([]models.Command, error) {
	var cmds []models.Command
	err := r.db.
		Where("client_id = ? AND status = ?", clientID, models.CommandStatusPending).
		Order("created_at ASC").
		Find(&cmds).Error
	if err != nil {
		return nil, err
	}
	if len(cmds) == 0 {
		return cmds, nil
	}

	ids := make([]uint, len(cmds))
	for i, c := range cmds {
		ids[i] = c.ID
	}
	err = r.db.Model(&models.Command{}).
		Where("id IN ?", ids).
		Update("status", models.CommandStatusSent).Error
	if err != nil {
		return nil, err
	}
	for i := range cmds {
		cmds[i].Status = models.CommandStatusSent
	}
	return cmds, nil
}
