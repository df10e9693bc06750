// Package config provides YAML-based configuration loading for hwmesh.
package config

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/spf13/viper"

    "hwmesh/pkg/mac"
)

// Config is the root application configuration.
type Config struct {
    // AppName optional logical name of the node/application
    AppName string `mapstructure:"app_name"`

    // Node describes the local station
    Node NodeConfig `mapstructure:"node"`

    // Log holds logging configuration
    Log LogConfig `mapstructure:"log"`

    // Table tunes the routing table and default lifetimes
    Table TableConfig `mapstructure:"table"`

    // Sim holds scenario replay options
    Sim SimConfig `mapstructure:"sim"`

    // Metrics controls Prometheus export
    Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig defines logger settings.
type LogConfig struct {
    // Level: debug, info, warn, error
    Level string `mapstructure:"level"`
    // Format: console or json
    Format string `mapstructure:"format"`
    // Outputs: list of outputs: stdout, stderr, or file paths
    Outputs []string `mapstructure:"outputs"`

    // Rotation controls file rotation when writing to files
    Rotation RotationConfig `mapstructure:"rotation"`
    // Development toggles development-friendly logging options
    Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
    Enable     bool   `mapstructure:"enable"`
    Filename   string `mapstructure:"filename"`
    MaxSizeMB  int    `mapstructure:"max_size_mb"`
    MaxBackups int    `mapstructure:"max_backups"`
    MaxAgeDays int    `mapstructure:"max_age_days"`
    Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
    return &Config{
        AppName: "hwmp-sim",
        Node:    NodeConfig{Address: "02:00:00:00:00:01", Interfaces: 1},
        Log: LogConfig{
            Level:       "info",
            Format:      "console",
            Outputs:     []string{"stderr"},
            Development: false,
            Rotation: RotationConfig{
                Enable:     false,
                Filename:   "logs/hwmesh.log",
                MaxSizeMB:  50,
                MaxBackups: 3,
                MaxAgeDays: 28,
                Compress:   true,
            },
        },
        Table: TableConfig{
            BTreeDegree:       16,
            ReactiveLifetime:  5 * time.Second,
            ProactiveLifetime: 10 * time.Second,
            PrecursorLifetime: 5 * time.Second,
        },
        Sim:     SimConfig{DumpFormat: "json"},
        Metrics: MetricsConfig{Enable: false, Listen: ":9464", Namespace: "hwmesh"},
    }
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix HWMESH and `.`/`-` are replaced with `_`.
// Example: HWMESH_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
    cfg := Default()

    v := viper.New()
    v.SetConfigType("yaml")
    v.SetEnvPrefix("HWMESH")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
    v.AutomaticEnv()

    // seed defaults for viper so env-only configs work
    v.SetDefault("app_name", cfg.AppName)
    v.SetDefault("node.address", cfg.Node.Address)
    v.SetDefault("node.interfaces", cfg.Node.Interfaces)
    v.SetDefault("log.level", cfg.Log.Level)
    v.SetDefault("log.format", cfg.Log.Format)
    v.SetDefault("log.outputs", cfg.Log.Outputs)
    v.SetDefault("log.development", cfg.Log.Development)
    v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
    v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
    v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
    v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
    v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
    v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
    v.SetDefault("table.btree_degree", cfg.Table.BTreeDegree)
    v.SetDefault("table.reactive_lifetime", cfg.Table.ReactiveLifetime)
    v.SetDefault("table.proactive_lifetime", cfg.Table.ProactiveLifetime)
    v.SetDefault("table.precursor_lifetime", cfg.Table.PrecursorLifetime)
    v.SetDefault("sim.scenario", cfg.Sim.Scenario)
    v.SetDefault("sim.dump_format", cfg.Sim.DumpFormat)
    v.SetDefault("metrics.enable", cfg.Metrics.Enable)
    v.SetDefault("metrics.listen", cfg.Metrics.Listen)
    v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)

    // Choose config file
    if path == "" {
        // Allow override via env var
        if envPath := os.Getenv("HWMESH_CONFIG"); envPath != "" {
            path = envPath
        }
    }

    if path != "" {
        v.SetConfigFile(path)
    } else {
        // Search common locations with base name `hwmesh`
        v.SetConfigName("hwmesh")
        v.AddConfigPath(".")
        v.AddConfigPath("./configs")
        if home, err := os.UserHomeDir(); err == nil {
            v.AddConfigPath(filepath.Join(home, ".hwmesh"))
        }
    }

    // Read config file if present; if not found, continue with defaults/env
    if err := v.ReadInConfig(); err != nil {
        var viperConfigFileNotFound viper.ConfigFileNotFoundError
        if !errors.As(err, &viperConfigFileNotFound) {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    if err := v.Unmarshal(cfg); err != nil {
        return nil, fmt.Errorf("decode config: %w", err)
    }

    if err := cfg.validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) validate() error {
    lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
    switch lvl {
    case "debug", "info", "warn", "warning", "error":
        // ok
    default:
        return fmt.Errorf("invalid log.level: %q", c.Log.Level)
    }

    if c.Log.Format == "" {
        c.Log.Format = "console"
    }
    if len(c.Log.Outputs) == 0 {
        c.Log.Outputs = []string{"stderr"}
    }
    if _, err := mac.Parse(c.Node.Address); err != nil {
        return fmt.Errorf("invalid node.address: %w", err)
    }
    if c.Node.Interfaces <= 0 {
        c.Node.Interfaces = 1
    }
    for name, d := range map[string]time.Duration{
        "table.reactive_lifetime":  c.Table.ReactiveLifetime,
        "table.proactive_lifetime": c.Table.ProactiveLifetime,
        "table.precursor_lifetime": c.Table.PrecursorLifetime,
    } {
        if d < 0 {
            return fmt.Errorf("invalid %s: %s", name, d)
        }
    }
    c.Sim.DumpFormat = strings.ToLower(strings.TrimSpace(c.Sim.DumpFormat))
    if c.Sim.DumpFormat == "" {
        c.Sim.DumpFormat = "json"
    }
    return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
    cfg, err := Load(path)
    if err != nil {
        panic(err)
    }
    return cfg
}
