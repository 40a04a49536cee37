package sender

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"artify/internal/core/domain"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// TelegramMessageLimit is the maximum length of a single Telegram message,
// counted in UTF-16 code units.
const TelegramMessageLimit = 4096

// ChatActionInterval is how often a chat action is repeated while work is in progress.
var ChatActionInterval = 5 * time.Second

type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

type Telegram struct {
	bot TelegramBot
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot}
}

// SendMessageReply replies with text, split into several messages if it
// exceeds the Telegram limit. Returns the ID of the last message sent.
func (s *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	var lastID int

	for _, chunk := range chunkText(text, TelegramMessageLimit) {
		params := &bot.SendMessageParams{
			ChatID: message.ChatID,
			Text:   chunk,
		}
		if message.ID != 0 {
			params.ReplyParameters = &models.ReplyParameters{
				MessageID: message.ID,
				ChatID:    message.ChatID,
			}
		}

		sent, err := s.bot.SendMessage(ctx, params)
		if err != nil {
			return lastID, fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
		}
		if sent != nil {
			lastID = sent.ID
		}
	}

	return lastID, nil
}

// SendImageURLReply replies with a photo. Data URIs are uploaded as files,
// anything else is handed to Telegram as a URL to fetch.
func (s *Telegram) SendImageURLReply(ctx context.Context, message *domain.Message, url string) error {
	if strings.HasPrefix(url, "data:") {
		img, err := domain.ParseEncodedImage(url)
		if err != nil {
			return err
		}
		return s.sendPhoto(ctx, message, &models.InputFileUpload{
			Filename: fmt.Sprintf("%d%s", message.ID, img.Extension()),
			Data:     bytes.NewReader(img.Data),
		})
	}

	return s.sendPhoto(ctx, message, &models.InputFileString{Data: url})
}

func (s *Telegram) sendPhoto(ctx context.Context, message *domain.Message, photo models.InputFile) error {
	params := &bot.SendPhotoParams{
		ChatID: message.ChatID,
		Photo:  photo,
		ReplyParameters: &models.ReplyParameters{
			MessageID: message.ID,
			ChatID:    message.ChatID,
		},
	}

	_, err := s.bot.SendPhoto(ctx, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to send photo response")
		return err
	}

	return nil
}

// NotifyAndReturnError tells the user what went wrong and returns err, or the
// send failure if the notification could not be delivered.
func (s *Telegram) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	log.Warn().Err(err).Int64("chatId", message.ChatID).Msg("notifying user about error")

	if _, sendErr := s.SendMessageReply(ctx, message, err.Error()); sendErr != nil {
		log.Error().Err(sendErr).Msg("failed to send error notification")
		return sendErr
	}

	return err
}

func (s *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	log.Debug().Int64("chatID", chatID).Msg("starting action routine")

	var chatAction models.ChatAction
	switch action {
	case domain.SendingPhoto:
		chatAction = models.ChatActionUploadPhoto
	default:
		chatAction = models.ChatActionTyping
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug().Int64("chatID", chatID).Msg("done, stopping action routine")
			return
		default:
		}

		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			log.Err(err).Msg("error sending chat action")
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatID", chatID).Msg("done, stopping action routine")
			return
		case <-time.After(ChatActionInterval):
		}
	}
}

// chunkText splits text into pieces of at most limit UTF-16 code units,
// which is how Telegram measures message length. Runes are never split.
func chunkText(text string, limit int) []string {
	var chunks []string
	var b strings.Builder
	units := 0

	for _, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > limit && b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
			units = 0
		}
		b.WriteRune(r)
		units += n
	}

	if b.Len() > 0 || len(chunks) == 0 {
		chunks = append(chunks, b.String())
	}

	return chunks
}
