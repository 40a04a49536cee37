package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artify/internal/core/domain"
	"artify/internal/core/domain/style"
	"artify/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Styles lists the available styles and their shortcuts.
type Styles struct {
	textSender port.TextSender
	styles     []style.Definition
	command    string
}

func NewStyles(textSender port.TextSender, styles []style.Definition, command string) *Styles {
	return &Styles{textSender: textSender, styles: styles, command: command}
}

func (s *Styles) GetCommand() string {
	return s.command
}

func (s *Styles) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	log.Info().Int64("chatId", message.ChatID).Str("command", s.command).Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var b strings.Builder
	b.WriteString("Available styles:\n")
	for _, def := range s.styles {
		fmt.Fprintf(&b, "/%s - %s\n", def.ID, def.Name)
	}

	_, err := s.textSender.SendMessageReply(ctx, message, strings.TrimSuffix(b.String(), "\n"))
	if err != nil {
		return fmt.Errorf("error sending style list: %w", err)
	}

	return nil
}
