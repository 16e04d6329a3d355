// Package store defines interfaces for short-lived data that can optionally outlive the bot process.
// Cooldowns are kept here so that, with Redis configured, restarting the bot doesn't reset them.
package store

import (
	"context"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
)

// CooldownStore tracks per-key cooldowns.
type CooldownStore interface {
	// Cooldown returns the time left on the cooldown for key, or 0 if there is no active cooldown.
	Cooldown(ctx context.Context, key string) (time.Duration, error)
	// SetCooldown starts a cooldown of length d for key, replacing any existing cooldown.
	SetCooldown(ctx context.Context, key string, d time.Duration) error

	Close() error
}

// CooldownKey returns the key for a user's cooldown on a command.
func CooldownKey(command string, userID discord.UserID) string {
	return "cooldown:" + command + ":" + userID.String()
}
