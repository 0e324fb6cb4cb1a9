// Package config provides Viper-based configuration loading for the battle
// simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// BattleConfig holds battle-engine settings.
type BattleConfig struct {
	// SwapTimeout is the deadline for a replacement selection after a
	// knockout; exceeding it forfeits the battle.
	SwapTimeout time.Duration `mapstructure:"swap_timeout"`
	// TurnLimit ends a battle with no result after this many turns.
	// 0 means unlimited.
	TurnLimit int `mapstructure:"turn_limit"`
	// Inverse flips type-effectiveness interpretation for every battle.
	Inverse bool `mapstructure:"inverse"`
	// Seed makes battles reproducible when non-zero; 0 selects a
	// crypto-backed random source.
	Seed int64 `mapstructure:"seed"`
}

// DataConfig holds content directory locations.
type DataConfig struct {
	// MovesDir is the directory of move definition YAML files.
	MovesDir string `mapstructure:"moves_dir"`
	// ScriptsDir is the directory of Lua move-effect scripts.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit caps Lua opcodes per hook call. 0 selects the
	// sandbox default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Battle  BattleConfig  `mapstructure:"battle"`
	Data    DataConfig    `mapstructure:"data"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateData(c.Data); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.SwapTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("battle.swap_timeout must be positive, got %s", b.SwapTimeout))
	}
	if b.TurnLimit < 0 {
		errs = append(errs, fmt.Sprintf("battle.turn_limit must be >= 0, got %d", b.TurnLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateData(d DataConfig) error {
	var errs []string
	if d.MovesDir == "" {
		errs = append(errs, "data.moves_dir must not be empty")
	}
	if d.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("data.script_instruction_limit must be >= 0, got %d", d.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with POKEBATTLE_ prefix
	v.SetEnvPrefix("POKEBATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("battle.swap_timeout", "60s")
	v.SetDefault("battle.turn_limit", 0)
	v.SetDefault("battle.inverse", false)
	v.SetDefault("battle.seed", 0)

	v.SetDefault("data.moves_dir", "content/moves")
	v.SetDefault("data.scripts_dir", "content/scripts/moves")
	v.SetDefault("data.script_instruction_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
