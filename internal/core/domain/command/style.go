package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artify/internal/core/domain"
	"artify/internal/core/domain/style"
	"artify/internal/core/port"
	"artify/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// StyleDeps bundles the collaborators of a Style command.
type StyleDeps struct {
	Transformer port.Transformer
	Compressor  port.Compressor
	Fetcher     port.ImageFetcher
	ImageSender port.ImageSender
	TextSender  port.TextSender
	Auth        service.Authorizer
	Track       service.Tracker
	Styles      *style.Registry
}

// Style restyles the photo attached to (or quoted by) a message. With a fixed
// style it serves shortcuts like /cartoon, otherwise the style id is read
// from the command arguments.
type Style struct {
	StyleDeps
	fixedStyle string
	maxMB      float64
	command    string
}

func NewStyle(deps StyleDeps, command, fixedStyle string) *Style {
	return &Style{
		StyleDeps:  deps,
		fixedStyle: fixedStyle,
		maxMB:      viper.GetFloat64("compressor.max_mb"),
		command:    command,
	}
}

func (s *Style) GetCommand() string {
	return s.command
}

func (s *Style) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !s.Auth.IsAuthorized(ctx, message.ChatID) {
		return nil
	}

	styleID := s.fixedStyle
	if styleID == "" {
		styleID = ParseCommandArgs(message.Text)
	}

	if styleID == "" {
		_, err := s.TextSender.SendMessageReply(ctx, message, s.usage())
		return err
	}

	if _, err := s.Styles.Lookup(styleID); err != nil {
		return s.notify(ctx, err, message)
	}

	if message.ImageURL == "" {
		_ = s.TextSender.NotifyAndReturnError(ctx, domain.ErrMissingImage, message)
		return nil
	}

	if !s.Track.Reserve(ctx, message.ChatID) {
		l.Debug().Msg("daily limit reached")
		return nil
	}

	if err := s.restyle(ctx, l, styleID, message); err != nil {
		s.Track.Release(message.ChatID)
		return s.notify(ctx, err, message)
	}

	return nil
}

// restyle fetches, compresses and transforms the image, then replies with
// the result. Errors are left to the caller to report.
func (s *Style) restyle(ctx context.Context, l zerolog.Logger, styleID string, message *domain.Message) error {
	go s.TextSender.SendChatAction(ctx, message.ChatID, domain.SendingPhoto)

	img, err := s.Fetcher.Fetch(ctx, message.ImageURL)
	if err != nil {
		return fmt.Errorf("error downloading image: %w", err)
	}

	if s.maxMB > 0 {
		shrunk, err := s.Compressor.Shrink(ctx, img, s.maxMB)
		if err != nil {
			return fmt.Errorf("error compressing image: %w", err)
		}

		l.Debug().
			Int("width", shrunk.Width).
			Int("height", shrunk.Height).
			Float64("quality", shrunk.Quality).
			Int("size", shrunk.Image.Size()).
			Msg("image compressed")

		img = shrunk.Image
	}

	result, err := s.Transformer.Transform(ctx, domain.TransformRequest{Image: img, Style: styleID})
	if err != nil {
		return fmt.Errorf("error transforming image: %w", err)
	}

	if err := s.ImageSender.SendImageURLReply(ctx, message, result.TransformedImage); err != nil {
		return fmt.Errorf("error sending transformed image: %w", err)
	}

	return nil
}

// notify reports err to the chat. Caller mistakes are not returned as
// handler failures.
func (s *Style) notify(ctx context.Context, err error, message *domain.Message) error {
	sendErr := s.TextSender.NotifyAndReturnError(ctx, err, message)

	switch domain.KindOf(err) {
	case domain.KindUnknownStyle, domain.KindInputFormat, domain.KindDecode:
		if errors.Is(sendErr, domain.ErrSendingReplyFailed) {
			return sendErr
		}
		return nil
	default:
		return sendErr
	}
}

func (s *Style) usage() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Usage: %s <style>, sent with or in reply to a photo.\n\nAvailable styles:\n", s.command)
	for _, def := range s.Styles.Definitions() {
		fmt.Fprintf(&b, "%s: %s\n", def.ID, def.Name)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
