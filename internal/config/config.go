package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/chat"
	"github.com/ramanasai/tripboard/internal/drag"
	"github.com/ramanasai/tripboard/internal/geo"
	"github.com/ramanasai/tripboard/internal/mapview"
)

// EnvPrefix prefixes every environment override: map.key is TRIPBOARD_MAP_KEY.
const EnvPrefix = "TRIPBOARD"

type BoardConfig struct {
	Trash           drag.TrashConfig `mapstructure:"trash"`
	UndoWindow      time.Duration    `mapstructure:"undo_window"`
	CrumpleDelay    time.Duration    `mapstructure:"crumple_delay"`
	FreshNoteWindow time.Duration    `mapstructure:"fresh_note_window"`
}

type MapConfig struct {
	Key      string        `mapstructure:"key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ChatConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`  // empty: no log
	Level string `mapstructure:"level"` // debug, info, warn, error
}

type Config struct {
	Theme     string       `mapstructure:"theme"` // background swatch name, e.g. "Warm Paper"
	NightMode bool         `mapstructure:"night_mode"`
	Board     BoardConfig  `mapstructure:"board"`
	Map       MapConfig    `mapstructure:"map"`
	Chat      ChatConfig   `mapstructure:"chat"`
	Notify    NotifyConfig `mapstructure:"notify"`
	Log       LogConfig    `mapstructure:"log"`
}

func Default() Config {
	return Config{
		Theme: "Warm Paper",
		Board: BoardConfig{
			Trash:           drag.DefaultTrash,
			UndoWindow:      board.DefaultUndoWindow,
			CrumpleDelay:    drag.DefaultCrumpleDelay,
			FreshNoteWindow: drag.DefaultFreshWindow,
		},
		Map: MapConfig{
			Endpoint: geo.DefaultEndpoint,
			Timeout:  mapview.DefaultTimeout,
		},
		Chat: ChatConfig{
			Endpoint: chat.DefaultEndpoint,
			Model:    chat.DefaultModel,
			Timeout:  30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/tripboard/config.yaml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tripboard", "config.yaml"), nil
}

func newViper(path string) (*viper.Viper, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults; every key needs one so env overrides reach Unmarshal
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("night_mode", cfg.NightMode)
	v.SetDefault("board.trash.right", cfg.Board.Trash.Right)
	v.SetDefault("board.trash.bottom", cfg.Board.Trash.Bottom)
	v.SetDefault("board.trash.width", cfg.Board.Trash.Width)
	v.SetDefault("board.trash.height", cfg.Board.Trash.Height)
	v.SetDefault("board.undo_window", cfg.Board.UndoWindow)
	v.SetDefault("board.crumple_delay", cfg.Board.CrumpleDelay)
	v.SetDefault("board.fresh_note_window", cfg.Board.FreshNoteWindow)
	v.SetDefault("map.key", cfg.Map.Key)
	v.SetDefault("map.endpoint", cfg.Map.Endpoint)
	v.SetDefault("map.timeout", cfg.Map.Timeout)
	v.SetDefault("chat.endpoint", cfg.Chat.Endpoint)
	v.SetDefault("chat.api_key", cfg.Chat.APIKey)
	v.SetDefault("chat.model", cfg.Chat.Model)
	v.SetDefault("chat.timeout", cfg.Chat.Timeout)
	v.SetDefault("notify.enabled", cfg.Notify.Enabled)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.level", cfg.Log.Level)

	// ok if missing
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config read: %w", err)
	}
	return v, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("config unmarshal: %w", err)
	}
	return cfg, nil
}

// Load reads path (DefaultPath when empty) with TRIPBOARD_* overrides on top.
func Load(path string) (Config, error) {
	v, err := newViper(path)
	if err != nil {
		return Default(), err
	}
	return decode(v)
}

// Watch loads path and calls onChange with the new Config every time the
// file is rewritten. Decode failures are logged and skipped.
func Watch(path string, logger *slog.Logger, onChange func(Config)) (Config, error) {
	v, err := newViper(path)
	if err != nil {
		return Default(), err
	}
	cfg, err := decode(v)
	if err != nil {
		return cfg, err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			logger.Warn("config reload failed", "file", e.Name, "err", err)
			return
		}
		logger.Info("config reloaded", "file", e.Name, "op", e.Op.String())
		onChange(next)
	})
	v.WatchConfig()
	return cfg, nil
}

// Background resolves the theme name to a colour for the active mode.
// Unknown names and names from the other mode give the mode default.
func (c Config) Background() string {
	for _, s := range board.Boards(c.NightMode) {
		if strings.EqualFold(s.Name, c.Theme) {
			return s.Value
		}
	}
	if c.NightMode {
		return board.DefaultNightBackground
	}
	return board.DefaultDayBackground
}

func (c Config) LogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
