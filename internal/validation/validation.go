package validation

import (
	"regexp"
	"strings"
)

var (
	// ChannelIDPattern matches public (C), private (G) and direct (D) conversation IDs.
	ChannelIDPattern = regexp.MustCompile(`^[CGD][A-Z0-9]{6,}$`)

	// UserIDPattern matches user (U) and enterprise user (W) IDs.
	UserIDPattern = regexp.MustCompile(`^[UW][A-Z0-9]{6,}$`)
)

// ValidateChannelID checks if id looks like a Slack conversation ID.
func ValidateChannelID(id string) bool {
	return ChannelIDPattern.MatchString(id)
}

// ValidateUserID checks if id looks like a Slack user ID.
func ValidateUserID(id string) bool {
	return UserIDPattern.MatchString(id)
}

// IsDirectMessage reports whether the conversation ID is a DM with the bot.
func IsDirectMessage(channelID string) bool {
	return strings.HasPrefix(channelID, "D")
}
