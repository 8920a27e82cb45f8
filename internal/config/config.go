// Package config loads application settings from flags and an optional
// YAML config file. Flags win over the file, the file wins over
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lowaak/fit-timer/fit-timer-app/internal/intervals"
	"github.com/lowaak/fit-timer/fit-timer-app/internal/timer"
)

// Store backends selectable via --store / store in the config file.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config is the resolved application configuration.
type Config struct {
	ConfigFile string

	Store       string
	DBPath      string
	StorePath   string
	CatalogPath string

	LogFile     string
	LogToStdout bool

	Timer timer.TimerConfig
}

// defaultDir returns the per-user application directory.
func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".fit-timer")
}

// Load parses args (excluding the program name) and merges them with the
// config file and defaults.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("fit-timer", pflag.ContinueOnError)

	appDir := defaultDir()
	configFile := flags.String("config", filepath.Join(appDir, "config.yaml"), "path to the config file")
	flags.String("store", StoreSQLite, "persistence backend: sqlite, file or memory")
	flags.String("db-path", filepath.Join(appDir, "fit-timer.db"), "sqlite database path")
	flags.String("store-path", filepath.Join(appDir, "store.json"), "JSON store path (with --store=file)")
	flags.String("catalog", "", "exercise catalog JSON path (empty uses the built-in catalog)")
	flags.String("log-file", filepath.Join(appDir, "fit-timer.log"), "log file path")
	flags.Bool("log-stdout", false, "also write logs to stdout")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(*configFile)
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	setTimerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", *configFile, err)
		}
	}

	cfg := &Config{
		ConfigFile:  *configFile,
		Store:       v.GetString("store"),
		DBPath:      v.GetString("db-path"),
		StorePath:   v.GetString("store-path"),
		CatalogPath: v.GetString("catalog"),
		LogFile:     v.GetString("log-file"),
		LogToStdout: v.GetBool("log-stdout"),
		Timer:       timerConfigFromViper(v),
	}

	switch cfg.Store {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	return cfg, nil
}

func setTimerDefaults(v *viper.Viper) {
	def := timer.DefaultHIITConfig()
	v.SetDefault("timer.mode", timer.ModeHIIT.String())
	v.SetDefault("timer.work_seconds", def.WorkSeconds)
	v.SetDefault("timer.ratio", def.Ratio.String())
	v.SetDefault("timer.rounds_per_set", def.RoundsPerSet)
	v.SetDefault("timer.sets", def.Sets)
	v.SetDefault("timer.prep_seconds", def.PrepSeconds)
	v.SetDefault("timer.recovery_seconds", def.RecoverySeconds)
	v.SetDefault("timer.extended_rest_interval_minutes", def.ExtendedRestIntervalMinutes)
	v.SetDefault("timer.extended_rest_bonus_seconds", def.ExtendedRestBonusSeconds)
	v.SetDefault("timer.cardio_minutes", timer.DefaultCardioMinutes)
	v.SetDefault("timer.session_length_minutes", timer.DefaultSessionLengthMinutes)
	v.SetDefault("timer.warmup_minutes", timer.DefaultWarmupMinutes)
}

func timerConfigFromViper(v *viper.Viper) timer.TimerConfig {
	mode, ok := timer.ParseMode(v.GetString("timer.mode"))
	if !ok {
		mode = timer.ModeHIIT
	}
	ratio, err := intervals.ParseRatio(v.GetString("timer.ratio"))
	if err != nil {
		ratio = intervals.RatioOneToOne
	}

	// rounds_per_set: 0 means "fill the session": the round count is
	// derived from session_length_minutes, minus the warmup when one is
	// configured.
	work := v.GetInt("timer.work_seconds")
	rounds := v.GetInt("timer.rounds_per_set")
	if rounds <= 0 {
		warmup := v.GetInt("timer.warmup_minutes")
		rounds = intervals.RoundsForSession(
			v.GetInt("timer.session_length_minutes"),
			work, intervals.RestFromWork(work, ratio),
			warmup > 0, warmup,
		)
	}

	return timer.TimerConfig{
		Mode: mode,
		HIIT: timer.HIITConfig{
			WorkSeconds:                 work,
			Ratio:                       ratio,
			RoundsPerSet:                rounds,
			Sets:                        v.GetInt("timer.sets"),
			PrepSeconds:                 v.GetInt("timer.prep_seconds"),
			RecoverySeconds:             v.GetInt("timer.recovery_seconds"),
			ExtendedRestIntervalMinutes: v.GetInt("timer.extended_rest_interval_minutes"),
			ExtendedRestBonusSeconds:    v.GetInt("timer.extended_rest_bonus_seconds"),
		},
		Flow: timer.BuiltinFlows[0].Config,
		Cardio: timer.CardioConfig{
			DurationMinutes: v.GetInt("timer.cardio_minutes"),
		},
	}
}
