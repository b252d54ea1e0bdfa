// Package config loads and validates the TOML application config.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"weightlog/internal/domain"
	"weightlog/internal/stats"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Display units.
const (
	UnitKilograms = "kg"
	UnitPounds    = "lb"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Storage    StorageConfig    `toml:"storage"`
	Validation ValidationConfig `toml:"validation"`
	Display    DisplayConfig    `toml:"display"`
	Goals      domain.Goals     `toml:"goals"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Validation.Validate(); err != nil {
		return err
	}
	if err := c.Display.Validate(); err != nil {
		return err
	}
	return validateGoals(c.Goals)
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port   int    `toml:"port"`
	WebDir string `toml:"web_dir"`
}

// Address returns the HTTP listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Level    string `toml:"level"`
	Path     string `toml:"path"`
	ToStdout bool   `toml:"to_stdout"`
	JSON     bool   `toml:"json"`
}

// Validate validates the logging configuration.
func (c *LoggingConfig) Validate() error {
	if c.Level == "" {
		c.Level = "info"
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("trace", "debug", "info", "warn", "error")),
	)
}

// StorageConfig selects the persistence backend. With the memory
// backend, CSVPath doubles as the durable copy of the log: it is
// imported at startup when present and is the target of save requests.
type StorageConfig struct {
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`
	CSVPath    string `toml:"csv_path"`
	WatchCSV   bool   `toml:"watch_csv"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendSQLite, BackendMemory)),
	); err != nil {
		return err
	}
	if c.Backend == BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("storage: backend is %q but sqlite_path is empty", BackendSQLite)
	}
	if c.WatchCSV && c.CSVPath == "" {
		return errors.New("storage: watch_csv is set but csv_path is empty")
	}
	return nil
}

// ValidationConfig tunes entry validation.
type ValidationConfig struct {
	FutureDates string `toml:"future_dates"`
}

// Validate validates the validation configuration.
func (c *ValidationConfig) Validate() error {
	if c.FutureDates == "" {
		c.FutureDates = string(domain.FutureDatesReject)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.FutureDates,
			validation.In(string(domain.FutureDatesReject), string(domain.FutureDatesAllow))),
	)
}

// Policy returns the configured future date policy.
func (c *ValidationConfig) Policy() domain.FutureDatePolicy {
	return domain.FutureDatePolicy(c.FutureDates)
}

// DisplayConfig holds presentation defaults the API hands to clients.
type DisplayConfig struct {
	Unit        string `toml:"unit"`
	TrendMethod string `toml:"trend_method"`
	TrendWindow int    `toml:"trend_window"`
}

// Validate validates the display configuration.
func (c *DisplayConfig) Validate() error {
	if c.Unit == "" {
		c.Unit = UnitKilograms
	}
	if c.TrendMethod == "" {
		c.TrendMethod = string(stats.MethodMovingAverage)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Unit, validation.In(UnitKilograms, UnitPounds)),
		validation.Field(&c.TrendMethod,
			validation.In(string(stats.MethodLinear), string(stats.MethodMovingAverage))),
		validation.Field(&c.TrendWindow, validation.Min(0)),
	)
}

// Method returns the configured default trend method.
func (c *DisplayConfig) Method() stats.Method {
	return stats.Method(c.TrendMethod)
}

func validateGoals(g domain.Goals) error {
	if g.TargetWeight < 0 {
		return errors.New("goals: target_weight must not be negative")
	}
	if g.BodyFatMin < 0 || g.BodyFatMax < 0 || g.SystolicMin < 0 || g.SystolicMax < 0 ||
		g.DiastolicMin < 0 || g.DiastolicMax < 0 {
		return errors.New("goals: bands must not be negative")
	}
	if g.BodyFatMin > g.BodyFatMax {
		return errors.New("goals: body_fat_min is above body_fat_max")
	}
	if g.SystolicMin > g.SystolicMax {
		return errors.New("goals: systolic_min is above systolic_max")
	}
	if g.DiastolicMin > g.DiastolicMax {
		return errors.New("goals: diastolic_min is above diastolic_max")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
// The default pressure and body fat bands match common healthy ranges;
// the target weight stays unset until the owner picks one.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:   8080,
			WebDir: "./web",
		},
		Logging: LoggingConfig{
			Level:    "info",
			ToStdout: true,
		},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: "./data/weightlog.db",
		},
		Validation: ValidationConfig{
			FutureDates: string(domain.FutureDatesReject),
		},
		Display: DisplayConfig{
			Unit:        UnitKilograms,
			TrendMethod: string(stats.MethodMovingAverage),
			TrendWindow: stats.DefaultWindow,
		},
		Goals: domain.Goals{
			BodyFatMin:   11,
			BodyFatMax:   20,
			SystolicMin:  100,
			SystolicMax:  120,
			DiastolicMin: 60,
			DiastolicMax: 80,
		},
	}
}

// Load reads a TOML config file, expands ${ENV} references, fills
// absent fields from the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(os.ExpandEnv(string(data)), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the defaults when
// the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := NewDefaultConfig()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}
