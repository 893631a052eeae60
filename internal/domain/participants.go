package domain

import (
	"fmt"
	"strings"
)

const aiParticipantPrefix = "ai-"

// AIParticipantID builds the synthetic participant id for the i-th AI seat.
func AIParticipantID(i int) string {
	return fmt.Sprintf("%s%d", aiParticipantPrefix, i)
}

// IsAIParticipant reports whether the participant id belongs to an AI seat.
func IsAIParticipant(id string) bool {
	return strings.HasPrefix(id, aiParticipantPrefix)
}
