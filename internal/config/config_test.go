package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"holdem-server/internal/util"
)

func TestInstance(t *testing.T) {
	a := assert.New(t)
	clear1 := util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("HOLDEM_TABLE_BIG_BLIND", "100")
	defer clear2()

	config = Config{}
	cfg := Instance()
	a.Equal(":8080", cfg.Server.Addr)
	a.Equal(6, cfg.Table.MaxPlayers)
	a.Equal(25, cfg.Table.SmallBlind)
	a.Equal(100, cfg.Table.BigBlind)
	a.Equal(15*time.Second, cfg.Table.TurnTimeout)
	a.Equal(500*time.Millisecond, cfg.Table.SettleDelay)
	a.Equal(time.Second, cfg.Table.BotDelay)
	a.Equal(1000, cfg.Equity.Trials)
	a.Equal(4, cfg.Equity.Workers)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("HOLDEM_TABLE_BIG_BLIND", "200")
	// ensure we aren't using a pointer
	cfg.Table.BigBlind = 1
	cfg = Instance()
	a.Equal(100, cfg.Table.BigBlind)
}

func TestDefaults(t *testing.T) {
	a := assert.New(t)
	clear1 := util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()

	a.NoError(Load())
	cfg := Instance()
	a.Equal(":5000", cfg.Server.Addr)
	a.Equal("info", cfg.Log.Level)

	opts := cfg.TableOptions()
	a.Equal(9, opts.MaxPlayers)
	a.Equal(5, opts.SmallBlind)
	a.Equal(10, opts.BigBlind)
	a.Equal(1000, opts.StartingStack)
	a.Equal(30*time.Second, opts.TurnTimeout)
	a.Equal(2*time.Second, opts.SettleDelay)
	a.Len(cfg.EquityOptions(1), 3)
}

func TestLoad_badEnvironment(t *testing.T) {
	clear1 := util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()
	clear2 := util.SetEnv("HOLDEM_TABLE_MAX_PLAYERS", "many")
	defer clear2()

	assert.Error(t, Load())
}

func TestConfig_TableOptions_testMode(t *testing.T) {
	a := assert.New(t)

	cfg := DefaultConfig()
	cfg.Table.TestMode = true
	opts := cfg.TableOptions()
	a.Equal(time.Duration(0), opts.SettleDelay)
	a.Equal(time.Duration(0), opts.BotDelay)
	a.Equal(30*time.Second, opts.TurnTimeout)
}
