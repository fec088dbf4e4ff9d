// Package config holds table and server configuration: the buy-in range,
// action timeout, and stake schedule the host applies on top of a parsed
// rules file, plus the environment-variable server settings cmd/server
// reads at boot (ported from the teacher's rules.TableConfig and
// cmd/game-server/main.go's GAME_SERVER_PORT/POKER_ENV handling).
package config

import (
	"fmt"
	"os"
	"time"

	"pokerengine/internal/betting"
)

// TableConfig configures one running table: which rules file it plays,
// the stake schedule, buy-in bounds, and per-action timeout.
type TableConfig struct {
	TableID       string
	RulesPath     string
	Stakes        betting.Stakes
	MaxPlayers    int
	MinPlayers    int
	BuyInMin      int
	BuyInMax      int
	ActionTimeout time.Duration

	// RunItTwice and Straddle are host-level table options the core engine
	// does not know about; the host applies them around StartHand/the
	// forced-bet step rather than threading them through the rules file.
	RunItTwice bool
	Straddle   bool
}

// Validate checks the bounds a table needs before it can seat players.
func (c TableConfig) Validate() error {
	if c.TableID == "" {
		return fmt.Errorf("config: table id is required")
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("config: min players must be at least 2")
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("config: max players must be >= min players")
	}
	if c.BuyInMax < c.BuyInMin {
		return fmt.Errorf("config: max buy-in must be >= min buy-in")
	}
	if c.ActionTimeout <= 0 {
		return fmt.Errorf("config: action timeout must be positive")
	}
	return nil
}

// DefaultTableConfig returns a conventional no-limit table configuration
// for the given rules file and table ID.
func DefaultTableConfig(tableID, rulesPath string) TableConfig {
	return TableConfig{
		TableID:   tableID,
		RulesPath: rulesPath,
		Stakes: betting.Stakes{
			SmallBlind: 5,
			BigBlind:   10,
			SmallBet:   10,
			BigBet:     20,
			BringIn:    5,
		},
		MaxPlayers:    9,
		MinPlayers:    2,
		BuyInMin:      100,
		BuyInMax:      10000,
		ActionTimeout: 30 * time.Second,
	}
}

// ServerConfig is the process-wide configuration cmd/server reads from the
// environment, mirroring the teacher's GAME_SERVER_PORT/POKER_ENV handling.
type ServerConfig struct {
	Port              string
	RulesDir          string
	ClickHouseDSN     string
	KafkaBrokers      []string
	PostgresDSN       string
	AnalyticsEnabled  bool
}

// ServerConfigFromEnv reads ServerConfig from the process environment,
// falling back to the teacher's defaults where a variable is unset.
func ServerConfigFromEnv() ServerConfig {
	port := os.Getenv("GAME_SERVER_PORT")
	if port == "" {
		port = "3002"
	}
	rulesDir := os.Getenv("POKER_RULES_DIR")
	if rulesDir == "" {
		rulesDir = "rules"
	}
	return ServerConfig{
		Port:             port,
		RulesDir:         rulesDir,
		ClickHouseDSN:    os.Getenv("CLICKHOUSE_DSN"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		KafkaBrokers:     splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
		AnalyticsEnabled: os.Getenv("POKER_ANALYTICS_ENABLED") == "true",
	}
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// IsDevEnvironment mirrors pkg/rng.IsDevEnvironment's POKER_ENV convention,
// kept here too since host config (not just RNG) branches on it.
func IsDevEnvironment() bool {
	return os.Getenv("POKER_ENV") != "production"
}
