package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdem-server/internal/util"
	"holdem-server/pkg/playable/poker/equity"
	"holdem-server/pkg/playable/poker/texasholdem"
)

// Config provides configuration for the hold'em server
type Config struct {
	loaded bool

	Server struct {
		Addr string `yaml:"addr"`
	}

	Table struct {
		MaxPlayers    int           `yaml:"maxPlayers" envconfig:"max_players"`
		SmallBlind    int           `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind      int           `yaml:"bigBlind" envconfig:"big_blind"`
		StartingStack int           `yaml:"startingStack" envconfig:"starting_stack"`
		TurnTimeout   time.Duration `yaml:"turnTimeout" envconfig:"turn_timeout"`
		SettleDelay   time.Duration `yaml:"settleDelay" envconfig:"settle_delay"`
		BotDelay      time.Duration `yaml:"botDelay" envconfig:"bot_delay"`
		AutoStart     bool          `yaml:"autoStart" envconfig:"auto_start"`

		// TestMode removes the settle and bot delays
		TestMode bool `yaml:"testMode" envconfig:"test_mode"`
	}

	Equity struct {
		Trials  int `yaml:"trials"`
		Workers int `yaml:"workers"`
	}

	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The config file is optional. Values from the environment (HOLDEM_*) take precedence
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case err == nil:
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	case !os.IsNotExist(err):
		return err
	}

	if err := envconfig.Process("holdem", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// DefaultConfig returns the configuration used when no file or environment overrides exist
func DefaultConfig() Config {
	opts := texasholdem.DefaultOptions()

	var cfg Config
	cfg.Server.Addr = ":5000"
	cfg.Table.MaxPlayers = opts.MaxPlayers
	cfg.Table.SmallBlind = opts.SmallBlind
	cfg.Table.BigBlind = opts.BigBlind
	cfg.Table.StartingStack = opts.StartingStack
	cfg.Table.TurnTimeout = opts.TurnTimeout
	cfg.Table.SettleDelay = opts.SettleDelay
	cfg.Table.BotDelay = opts.BotDelay
	cfg.Table.AutoStart = opts.AutoStart
	cfg.Equity.Trials = equity.DefaultTrials
	cfg.Equity.Workers = 4
	cfg.Log.Level = "info"

	return cfg
}

// TableOptions returns the table options described by the config
func (c Config) TableOptions() texasholdem.Options {
	opts := texasholdem.Options{
		MaxPlayers:    c.Table.MaxPlayers,
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		StartingStack: c.Table.StartingStack,
		TurnTimeout:   c.Table.TurnTimeout,
		SettleDelay:   c.Table.SettleDelay,
		BotDelay:      c.Table.BotDelay,
		AutoStart:     c.Table.AutoStart,
	}

	if c.Table.TestMode {
		opts.SettleDelay = 0
		opts.BotDelay = 0
	}

	return opts
}

// EquityOptions returns the estimator options described by the config
func (c Config) EquityOptions(seed int64) []equity.Option {
	return []equity.Option{
		equity.WithTrials(c.Equity.Trials),
		equity.WithWorkers(c.Equity.Workers),
		equity.WithSeed(seed),
	}
}
