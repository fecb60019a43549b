package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tripboard/internal/chat"
	"github.com/ramanasai/tripboard/internal/config"
	"github.com/ramanasai/tripboard/internal/geo"
	"github.com/ramanasai/tripboard/internal/mapview"
	"github.com/ramanasai/tripboard/internal/notify"
	"github.com/ramanasai/tripboard/internal/ui"
	"github.com/ramanasai/tripboard/internal/utils"
)

var (
	cfgFile      string
	noColor      bool
	seed         uint64
	tripLocation string
	tripFrom     string
	tripTo       string
)

var rootCmd = &cobra.Command{
	Use:   "tripboard",
	Short: "Plan trips on a board of sticky notes",
	Long: `Opens the board full screen. Drag notes with the mouse, drop them on the
trash to delete, press ? for keys.

Examples:
  tripboard
  tripboard --location Lisbon --from fri --to +4d
  tripboard --seed 42                      # same colours and tilt every run`,
	SilenceUsage: true,
	RunE:         runBoard,
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/tripboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "seed for note colours and tilt")
	rootCmd.Flags().StringVarP(&tripLocation, "location", "l", "", "destination for the welcome note")
	rootCmd.Flags().StringVar(&tripFrom, "from", "", "trip start, e.g. 2026-10-20, tomorrow, fri, +3d")
	rootCmd.Flags().StringVar(&tripTo, "to", "", "trip end, absolute or relative to --from")

	rootCmd.AddCommand(geocodeCmd, askCmd, exportCmd, versionCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	start, end, err := utils.ParseTripRange(tripFrom, tripTo, time.Now())
	if err != nil {
		return err
	}

	deps := ui.Deps{
		Config:   cfg,
		Trip:     ui.Trip{Location: tripLocation, Start: start, End: end},
		Notifier: notify.New(cfg.Notify.Enabled, logger),
		Logger:   logger,
	}
	deps.Resolver, deps.Maps, deps.Chat = services(cfg, logger)
	if _, err := os.Stat(path); err == nil {
		deps.ConfigPath = path
	}
	if cmd.Flags().Changed("seed") {
		s := seed
		deps.Seed = &s
	}
	if dir, err := os.Getwd(); err == nil {
		deps.ExportDir = dir
	}

	logger.Info("board starting", "config", path, "seeded", deps.Seed != nil)
	return ui.Run(deps)
}

func loadConfig() (config.Config, string, error) {
	path := cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, "", fmt.Errorf("config path: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, path, nil
}

// openLogger writes to the configured log file. The terminal belongs to the
// board, so without a file nothing is logged.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel()})
	return slog.New(h), func() { _ = f.Close() }, nil
}

// stderrLogger is for the one-shot commands, which can print warnings.
func stderrLogger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// services builds the network clients. Missing credentials leave the
// matching client out and the board degrades to offline behaviour.
func services(cfg config.Config, logger *slog.Logger) (*geo.Resolver, *mapview.Loader, chat.Completer) {
	var source geo.Source
	if cfg.Map.Key != "" {
		source = geo.NewAMap(cfg.Map.Endpoint, cfg.Map.Key, cfg.Map.Timeout)
	} else {
		logger.Warn("no map key configured, maps and geocoding are offline", "env", config.EnvPrefix+"_MAP_KEY")
	}
	resolver := geo.NewResolver(geo.NewCache(geo.DefaultLearned), source, logger)
	maps := mapview.NewLoader(cfg.Map.Endpoint, cfg.Map.Key,
		mapview.WithTimeout(cfg.Map.Timeout),
		mapview.WithLogger(logger),
	)

	var completer chat.Completer
	if cfg.Chat.APIKey != "" {
		completer = chat.NewClient(cfg.Chat.Endpoint, cfg.Chat.APIKey, cfg.Chat.Model, cfg.Chat.Timeout)
	}
	return resolver, maps, completer
}
