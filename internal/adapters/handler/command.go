package handler

import (
	"context"
	"strings"
	"time"

	"artify/internal/adapters/file"
	"artify/internal/core/domain"
	"artify/internal/core/domain/command"
	"artify/internal/core/port"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// FileResolver turns Telegram file ids into download links. *bot.Bot
// implements it.
type FileResolver interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type Command struct {
	commandRegistry port.CommandRegistry
	files           FileResolver
	timeout         time.Duration
}

func NewCommand(commandRegistry port.CommandRegistry, files FileResolver, timeout time.Duration) *Command {
	return &Command{commandRegistry: commandRegistry, files: files, timeout: timeout}
}

// Handle dispatches a command message to its registered handler. The
// handler runs in its own goroutine so polling is never blocked.
func (c *Command) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		log.Debug().Msg("update without message")
		return
	}

	msg := update.Message
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	cmd := command.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Err(err).Str("command", cmd).Msg("no handler for command")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		err := commandHandler.Respond(ctx, c.timeout, &domain.Message{
			ID:       msg.ID,
			ChatID:   msg.Chat.ID,
			Username: getUserNameFromMessage(msg.From),
			Text:     text,
			ImageURL: c.imageURL(ctx, msg),
		})
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

// imageURL resolves the photo or image document on the message, falling
// back to the message it replies to. An empty string means no image.
func (c *Command) imageURL(ctx context.Context, msg *models.Message) string {
	fileID := imageFileID(msg)
	if fileID == "" && msg.ReplyToMessage != nil {
		fileID = imageFileID(msg.ReplyToMessage)
	}

	if fileID == "" || c.files == nil {
		return ""
	}

	f, err := c.files.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		log.Err(err).Str("fileId", fileID).Msg("error getting file from telegram api")
		return ""
	}

	return c.files.FileDownloadLink(f)
}

func imageFileID(msg *models.Message) string {
	if len(msg.Photo) > 0 {
		return findLargestImage(msg.Photo, file.MaxDownloadBytes)
	}

	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID
	}

	return ""
}

// findLargestImage picks the biggest rendition that can still be downloaded.
// Telegram lists renditions from smallest to largest.
func findLargestImage(photos []models.PhotoSize, maxBytes int) string {
	for i := len(photos) - 1; i >= 0; i-- {
		if photos[i].FileSize <= maxBytes {
			return photos[i].FileID
		}
	}

	return photos[0].FileID
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
