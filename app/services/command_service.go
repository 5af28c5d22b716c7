package services

import (
	"encoding/json"
	"fmt"

	"github.com/tovalh/AgenteSigco/app/models"
	"github.com/tovalh/AgenteSigco/app/repo"
)

type CommandService struct{ commands *repo.CommandRepository }

func NewCommandService(commands *repo.CommandRepository) *CommandService {
	return &CommandService{commands: commands}
}

// Enqueue stores one pending command. The target client is not checked for
// existence; a command for an unknown client_id simply never gets claimed.
func (s *CommandService) Enqueue(clientID, commandType string, data json.RawMessage) error {
	cmd := models.Command{
		ClientID:    clientID,
		CommandType: commandType,
		CommandData: jsonOrEmpty(data),
		Status:      models.CommandStatusPending,
	}
	if err := s.commands.Create(&cmd); err != nil {
		return fmt.Errorf("enqueue command: %w", err)
	}
	return nil
}
