package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"arcade/internal/domain"
)

// BotIdentity is one entry of the display-name pool for AI seats. AI
// participants are synthetic ids, not accounts; identities only decorate the
// roster shown to humans.
type BotIdentity struct {
	DisplayName string `json:"display_name"`
	AvatarIndex int    `json:"avatar_index"`
}

var (
	botIdentities []BotIdentity
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot display-name pool from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &botIdentities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
	})
	return loadErr
}

// GetBotDisplayName returns the pooled display name for an AI participant
// id, falling back to a generic label when the pool is empty or the id is
// not synthetic.
func GetBotDisplayName(participantID string) string {
	if !domain.IsAIParticipant(participantID) {
		return ""
	}
	idx := 0
	fmt.Sscanf(participantID, "ai-%d", &idx)
	if len(botIdentities) == 0 {
		return fmt.Sprintf("Bot %d", idx+1)
	}
	return botIdentities[idx%len(botIdentities)].DisplayName
}
