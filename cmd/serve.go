package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"artify/internal/adapters/api"
	"artify/internal/adapters/file"
	"artify/internal/adapters/handler"
	"artify/internal/adapters/sender"
	"artify/internal/core/domain/command"
	"artify/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the HTTP API",
	Long: `Starts the HTTP API on api.listen and, when telegram.bot_token is set,
the Telegram bot. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "Override api.listen")
	serveCmd.Flags().Bool("no-api", false, "Do not start the HTTP API")
	_ = viper.BindPFlag("api.listen", serveCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Info().Msg("starting artify...")

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, err := newServices("")
	if err != nil {
		return err
	}

	noAPI, _ := cmd.Flags().GetBool("no-api")
	token := viper.GetString("telegram.bot_token")

	if noAPI && token == "" {
		return errors.New("nothing to serve: api disabled and telegram.bot_token not set")
	}

	g, ctx := errgroup.WithContext(ctx)

	if !noAPI {
		server := api.NewServer(
			api.NewRouter(svc.bridge, svc.compressor, svc.styles, apiOptions()),
			viper.GetString("api.listen"),
			viper.GetDuration("api.read_timeout"),
			viper.GetDuration("api.write_timeout"))

		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	if token != "" {
		b, err := newTelegramBot(ctx, token, svc)
		if err != nil {
			return err
		}

		g.Go(func() error {
			log.Info().Msg("bot listening")
			b.Start(ctx)
			return nil
		})
	} else {
		log.Info().Msg("telegram.bot_token not set, bot disabled")
	}

	return g.Wait()
}

func apiOptions() api.Options {
	opts := api.Options{
		MaxBodyMB:       viper.GetFloat64("api.max_body_mb"),
		DefaultShrinkMB: compressorBudget(),
	}
	if viper.GetBool("api.shrink_before_transform") {
		opts.ShrinkBeforeTransformMB = compressorBudget()
	}

	return opts
}

func newTelegramBot(ctx context.Context, token string, svc *services) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithDefaultHandler(noOpHandler))
	if err != nil {
		return nil, err
	}

	s := sender.NewTelegram(b)

	auth, err := service.NewAuthorizer(s)
	if err != nil {
		return nil, err
	}

	registry := newCommandRegistry(command.StyleDeps{
		Transformer: svc.bridge,
		Compressor:  svc.compressor,
		Fetcher:     file.Fetcher{},
		ImageSender: s,
		TextSender:  s,
		Auth:        auth,
		Track:       service.NewUsageTracker(ctx, s),
		Styles:      svc.styles,
	})

	commandHandler := handler.NewCommand(registry, b, viper.GetDuration("handler.timeout"))

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	return b, nil
}

// newCommandRegistry registers /style, /styles and a shortcut per style.
func newCommandRegistry(deps command.StyleDeps) *command.Registry {
	registry := &command.Registry{}

	registry.Register(command.NewStyle(deps, "/style", ""))
	defs := deps.Styles.Definitions()
	registry.Register(command.NewStyles(deps.TextSender, defs, "/styles"))
	registry.Register(command.NewStyles(deps.TextSender, defs, "/start"))

	for _, def := range defs {
		name := "/" + def.ID
		if _, err := registry.Get(name); err == nil {
			log.Warn().Str("style", def.ID).Msg("style shortcut collides with a command, skipping")
			continue
		}
		registry.Register(command.NewStyle(deps, name, def.ID))
	}

	return registry
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
