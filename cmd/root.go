package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"artify/internal/adapters/converter"
	"artify/internal/adapters/generator"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "artify",
	Short: "Restyle photos with a hosted generative image model",
	Long: `artify turns photos into sketches, cartoons and other styles.

Examples:
  artify serve                                  # telegram bot and http api
  artify transform -i cat.jpg -s ghibli -o out/ # one-off transformation
  artify shrink -i big.png --max-mb 1           # compress only
  artify styles                                 # list style identifiers`,
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.toml", "Path to the TOML config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("handler.timeout", 2*time.Minute)
	viper.SetDefault("model.provider", "gemini")
	viper.SetDefault("gemini.model", generator.DefaultGeminiModel)
	viper.SetDefault("fal.edit_url", generator.DefaultFALEditURL)
	viper.SetDefault("compressor.max_mb", converter.DefaultMaxMB)
	viper.SetDefault("api.listen", ":8080")
	viper.SetDefault("api.max_body_mb", 10.0)
	viper.SetDefault("api.shrink_before_transform", false)
	viper.SetDefault("api.read_timeout", 30*time.Second)
	viper.SetDefault("api.write_timeout", 3*time.Minute)
	viper.SetDefault("telegram.daily_transform_limit", 0)
}

// initConfig loads the config file if present. Every key can also be set
// through the environment, e.g. ARTIFY_GEMINI_API_KEY.
func initConfig() error {
	setDefaults()

	viper.SetConfigFile(configFile)
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("artify")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	switch {
	case err == nil:
		log.Debug().Str("path", viper.ConfigFileUsed()).Msg("config file loaded")
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", configFile).Msg("no config file, using defaults and environment")
	default:
		return fmt.Errorf("could not read config file: %w", err)
	}

	zerolog.SetGlobalLevel(logLevel(viper.GetString("log.level")))

	return nil
}

func logLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
