package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/common"
	"github.com/Veraticus/honcho/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	input   *cli.NonBlockingReader
	cfgFile string
	session string
}

func newApp(in io.Reader) *app {
	v := viper.New()
	config.SetDefaults(v)
	return &app{v: v, input: cli.NewNonBlockingReader(in)}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "honcho",
		Short: cli.CameraIcon + " Photo edit sessions from the terminal",
		Long: `honcho keeps per-image adjustments, undo history, bulk edits,
copy/paste of adjustment categories and presets for a set of photos.

Every command loads the saved session, applies one operation and saves it
back, so edits survive between invocations. 'honcho edit' opens the
interactive editor.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/honcho/config.yaml)")
	flags.StringVar(&a.session, "session", "default", "name of the saved session to work on")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("db", "", "database path (overrides database.path)")
	flags.String("context", "", "editing context: desktop, bulk or mobile")

	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("database.path", flags.Lookup("db"))
	_ = a.v.BindPFlag("editor.context", flags.Lookup("context"))

	root.AddCommand(
		versionCmd(),
		migrateCmd(a),
		imagesCmd(a),
		adjustCmd(a),
		bulkCmd(a),
		selectCmd(a),
		activateCmd(a),
		undoCmd(a),
		redoCmd(a),
		revertCmd(a),
		copyCmd(a),
		pasteCmd(a),
		presetsCmd(a),
		sessionCmd(a),
		editCmd(a),
	)
	return root
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	// Load .env file if present (ignore errors)
	_ = godotenv.Load()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		a.v.AddConfigPath(filepath.Join(home, ".config", "honcho"))
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("HONCHO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := common.SetupLogger(level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("Configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"database", cfg.Database.Path,
		"remote_host", cfg.Host.Remote(),
		"context", cfg.Editor.Context)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "honcho %s\n", version)
		},
	}
}
