package bot

import (
	"fmt"
	"math/rand"
	"time"

	"arcade/internal/domain"
)

// NewAgent creates an agent for the given AI participant id with the default
// tuning. rng may be nil to use a time-seeded source.
func NewAgent(participantID string, rng *rand.Rand) (*Agent, error) {
	if !domain.IsAIParticipant(participantID) {
		return nil, fmt.Errorf("not an AI participant id: %s", participantID)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{
		ID:        participantID,
		Name:      GetBotDisplayName(participantID),
		Ludo:      NewHeuristicLudoBrain(DefaultLudoWeights, rng),
		TicTacToe: NewRuleTicTacToeBrain(rng),
	}, nil
}
