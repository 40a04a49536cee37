package service

import (
	"context"
	"fmt"
	"slices"

	"artify/internal/core/domain"
	"artify/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Authorizer decides whether a chat may use the bot. A rejected chat has
// already been told so when IsAuthorized returns.
type Authorizer interface {
	IsAuthorized(ctx context.Context, chatID int64) bool
}

// ChatAuthorizer admits the chats in telegram.allowed_chat_ids, or every
// chat when that list is empty.
type ChatAuthorizer struct {
	allowlist []int64
	sender    port.TextSender
}

func NewAuthorizer(sender port.TextSender) (*ChatAuthorizer, error) {
	a := &ChatAuthorizer{sender: sender}

	if err := viper.UnmarshalKey("telegram.allowed_chat_ids", &a.allowlist); err != nil {
		return nil, fmt.Errorf("invalid telegram.allowed_chat_ids: %w", err)
	}

	log.Info().Int("chats", len(a.allowlist)).Msg("chat allowlist loaded")

	return a, nil
}

const accessDenied = "Artify is not enabled for this chat. Please contact @%s with this ID to get access: %d"

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, chatID int64) bool {
	if a.admits(chatID) {
		return true
	}

	log.Info().Int64("chatId", chatID).Msg("rejecting chat outside allowlist")

	text := fmt.Sprintf(accessDenied, viper.GetString("telegram.admin_username"), chatID)
	if _, err := a.sender.SendMessageReply(ctx, &domain.Message{ChatID: chatID}, text); err != nil {
		log.Warn().Err(err).Int64("chatId", chatID).Msg("could not deliver access denial")
	}

	return false
}

func (a *ChatAuthorizer) admits(chatID int64) bool {
	return len(a.allowlist) == 0 || slices.Contains(a.allowlist, chatID)
}
