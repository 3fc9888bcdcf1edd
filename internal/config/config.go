package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/atomicstack/tmux-floatdesk/internal/app"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
)

// Config captures runtime configuration for the application.
type Config struct {
	App        app.Config
	Logging    Logging
	ConfigFile string
	Flags      map[string]string
	Args       []string
}

type Logging struct {
	FilePath string
	Level    string
	Trace    bool
}

const envPrefix = "FLOATDESK_"

// keys lists every setting. Each one is a flag, FLOATDESK_<KEY> in the
// environment (dashes become underscores) and a key in the config file.
var keys = []string{
	"socket", "width", "height", "boundary", "cell-width", "cell-height",
	"tab-capacity", "pressure-threshold", "pressure-capacity", "memory-source",
	"poll-interval", "drag-drop", "start-bottom-right", "log-file", "log-level",
	"trace",
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	var (
		cfg Config
		ran bool
	)
	cmd := NewCommand(environ, func(c Config) error {
		cfg, ran = c, true
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		return Config{}, err
	}
	if !ran {
		return Config{}, pflag.ErrHelp
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// NewCommand builds the root command. run receives the layered
// configuration: flags over environment over config file over defaults.
func NewCommand(environ []string, run func(Config) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tmux-floatdesk",
		Short:         "A floating window and tab strip for the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := cmd.Flags()
	fs.String("config", "", "config file (yaml, toml or json)")
	fs.String("socket", "", "path to the tmux socket (overrides environment detection)")
	fs.Int("width", 0, "desk width in cells (0 uses terminal width)")
	fs.Int("height", 0, "desk height in rows (0 uses terminal height)")
	fs.String("boundary", geom.HandleAlwaysUsable.String(), "window boundary mode: unconstrained, handle or parent")
	fs.Float64("cell-width", 8, "logical units per terminal column")
	fs.Float64("cell-height", 16, "logical units per terminal row")
	fs.Int("tab-capacity", 50, "maximum open tabs before the oldest is evicted")
	fs.Float64("pressure-threshold", 0.8, "memory usage ratio above which tab capacity shrinks")
	fs.Int("pressure-capacity", 1, "tab capacity while under memory pressure")
	fs.String("memory-source", "system", "memory pressure source: system or runtime")
	fs.Duration("poll-interval", 1500*time.Millisecond, "backend poll interval")
	fs.Bool("drag-drop", true, "allow tearing the window out into a tmux popup")
	fs.Bool("start-bottom-right", false, "place the window in the bottom-right corner when first shown")
	fs.String("log-file", "", "path to the log file")
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.Bool("trace", false, "enable verbose JSON trace logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := fromFlags(cmd.Flags(), environ)
		if err != nil {
			return err
		}
		return run(cfg)
	}
	return cmd
}

func fromFlags(fs *pflag.FlagSet, environ []string) (Config, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	env := parseEnv(environ)
	file, _ := fs.GetString("config")
	if file == "" {
		file = env[envPrefix+"CONFIG"]
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	// Environment sits above the file and below explicitly set flags.
	overrides := make(map[string]interface{})
	for _, key := range keys {
		if val, ok := env[envKey(key)]; ok && strings.TrimSpace(val) != "" {
			overrides[key] = val
		}
	}
	if err := v.MergeConfigMap(overrides); err != nil {
		return Config{}, fmt.Errorf("merge environment: %w", err)
	}

	boundary, err := geom.ParseBoundaryMode(v.GetString("boundary"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			SocketPath:        v.GetString("socket"),
			Width:             v.GetInt("width"),
			Height:            v.GetInt("height"),
			Boundary:          boundary,
			CellWidth:         v.GetFloat64("cell-width"),
			CellHeight:        v.GetFloat64("cell-height"),
			TabCapacity:       v.GetInt("tab-capacity"),
			PressureThreshold: v.GetFloat64("pressure-threshold"),
			PressureCapacity:  v.GetInt("pressure-capacity"),
			MemorySource:      v.GetString("memory-source"),
			PollInterval:      v.GetDuration("poll-interval"),
			DragDrop:          v.GetBool("drag-drop"),
			StartBottomRight:  v.GetBool("start-bottom-right"),
		},
		Logging: Logging{
			FilePath: v.GetString("log-file"),
			Level:    v.GetString("log-level"),
			Trace:    v.GetBool("trace"),
		},
		ConfigFile: file,
		Flags:      make(map[string]string, len(keys)),
	}
	for _, key := range keys {
		cfg.Flags[key] = v.GetString(key)
	}
	return cfg, nil
}

func envKey(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// Validate rejects settings the desk cannot run with.
func Validate(cfg Config) error {
	a := cfg.App
	switch {
	case a.Width < 0:
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	case a.Height < 0:
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	case a.CellWidth <= 0 || a.CellHeight <= 0:
		return fmt.Errorf("cell size must be positive (got %sx%s)", formatFloat(a.CellWidth), formatFloat(a.CellHeight))
	case a.TabCapacity < 1:
		return fmt.Errorf("tab-capacity must be >= 1 (got %d)", a.TabCapacity)
	case a.PressureCapacity < 1:
		return fmt.Errorf("pressure-capacity must be >= 1 (got %d)", a.PressureCapacity)
	case a.PressureThreshold <= 0 || a.PressureThreshold > 1:
		return fmt.Errorf("pressure-threshold must be in (0, 1] (got %s)", formatFloat(a.PressureThreshold))
	case a.PollInterval <= 0:
		return fmt.Errorf("poll-interval must be positive (got %s)", a.PollInterval)
	}
	if _, err := memory.SourceByName(a.MemorySource); err != nil {
		return err
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
