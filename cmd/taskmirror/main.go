package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskmirror/taskmirror/internal/client"
	"github.com/taskmirror/taskmirror/internal/config"
	"github.com/taskmirror/taskmirror/internal/version"
)

const configFileName = "config"

var rootCmd = &cobra.Command{
	Use:     "taskmirror",
	Short:   "Mirror tagged files from a cloud drive into a task tracker",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Config{Path: viper.ConfigFileUsed()}
		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("config parse: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// config is good, errors past this point are runtime failures
		cmd.SilenceUsage = true

		c, err := client.New(cfg)
		if err != nil {
			return err
		}

		defer slog.Info("Bye!")
		return c.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().IntP("interval", "i", 30, "minutes between mirror passes")
	rootCmd.Flags().StringP("addr", "a", config.DefaultHTTPAddr, "control plane listen address")
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "taskmirror config file")
}

func main() {
	// .env is optional, used for local development credentials
	_ = godotenv.Load()

	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Dir(config.DefaultConfigPath))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.BindPFlag("interval_minutes", cmd.Flags().Lookup("interval"))
	viper.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))

	// TASKMIRROR_TRACKER_API_TOKEN, TASKMIRROR_SOURCE_API_TOKEN, ...
	viper.SetEnvPrefix("TASKMIRROR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// register every key so env-only overrides survive Unmarshal
	for _, key := range []string{
		"tracker.base_url", "tracker.api_token", "tracker.workspace",
		"tracker.space", "tracker.folder", "tracker.list",
		"source.base_url", "source.api_token", "source.root_folder_id",
		"source.mirror_tag", "source.scan_depth",
		"http.auth_token",
		"index_path", "history_db_path",
	} {
		viper.SetDefault(key, viper.Get(key))
	}

	return nil
}
