// Package cmd provides the entrypoint for the gemini-proxy cli.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/helpers"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = helpers.NewNoopLogger()

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for the gemini-proxy.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gemini-proxy",
		Short:         "Relay browser requests to the Gemini API without exposing the API key",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = helpers.NewLogger(config.Global.Logging.Verbosity, config.Global.Logging.CallerTrace).
				With("mode", config.Global.Mode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return runService(cmd, args)
			case config.ModeLambdaHTTP:
				return runLambdaHTTP(cmd, args)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Configuration loading & defaults
	if err := errors.Join(
		config.LoadFromFile(config.FilePath()),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}
	loadEnvFile(config.Global.EnvFile)

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
		cmdClientConfig(),
	)

	return cmd
}

// loadEnvFile loads a dotenv file without overriding variables already set.
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Warn("failed to load env file", slog.String("path", path), slog.Any("error", err))
	}
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
}
