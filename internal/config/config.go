package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	// BotMinDelayMillis and BotMaxDelayMillis bound the pause before a bot
	// acts, so automated turns read as deliberate rather than instant.
	BotMinDelayMillis int `json:"bot_min_delay_millis"`
	BotMaxDelayMillis int `json:"bot_max_delay_millis"`
	// SnakesAdvanceDelayMillis is the pause between a pawn landing on a
	// snake or ladder head and the turn rotating.
	SnakesAdvanceDelayMillis int `json:"snakes_advance_delay_millis"`
	// BotAutoFillDelayMillis is how long a lone human waits in the lobby
	// before the open seats fill with bots.
	BotAutoFillDelayMillis int `json:"bot_auto_fill_delay_millis"`

	SyncBaseBackoffMillis int `json:"sync_base_backoff_millis"`
	SyncMaxBackoffMillis  int `json:"sync_max_backoff_millis"`
	SyncMaxAttempts       int `json:"sync_max_attempts"`

	InviteSecret     string `json:"invite_secret"`
	InviteIssuer     string `json:"invite_issuer"`
	InviteTTLMinutes int    `json:"invite_ttl_minutes"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBotDelayMillis returns the configured bot delay bounds, or safe
// defaults when no config is loaded.
func GetBotDelayMillis() (min, max int) {
	if cfg == nil || cfg.BotMinDelayMillis <= 0 || cfg.BotMaxDelayMillis < cfg.BotMinDelayMillis {
		return 800, 2200
	}
	return cfg.BotMinDelayMillis, cfg.BotMaxDelayMillis
}

// GetBotAutoFillDelayMillis returns how long a solo lobby waits before
// bots take the open seats.
func GetBotAutoFillDelayMillis() int {
	if cfg == nil || cfg.BotAutoFillDelayMillis <= 0 {
		return 15000
	}
	return cfg.BotAutoFillDelayMillis
}

// GetSnakesAdvanceDelayMillis returns the pause before the turn rotates
// after a snake or ladder teleport.
func GetSnakesAdvanceDelayMillis() int {
	if cfg == nil || cfg.SnakesAdvanceDelayMillis <= 0 {
		return 600
	}
	return cfg.SnakesAdvanceDelayMillis
}
