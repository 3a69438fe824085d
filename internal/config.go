package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/dashboard"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Auth      AuthConfig        `yaml:"auth"`
	Dashboard DashboardConfig   `yaml:"dashboard"`
	Import    ImportConfig      `yaml:"import"`
	AMQP      AMQPConfig        `yaml:"amqp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Dashboard.Validate(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	if err := c.Import.Validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := c.AMQP.Validate(); err != nil {
		return fmt.Errorf("amqp: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for a
//     terminal on the plant floor.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// DashboardConfig controls the views and how often they refresh.
type DashboardConfig struct {
	RefreshInterval  time.Duration `yaml:"refresh_interval"`
	Timezone         string        `yaml:"timezone"`
	UpcomingDays     int           `yaml:"upcoming_days"`
	RecentWindowDays int           `yaml:"recent_window_days"`
	RecentSampleSize int           `yaml:"recent_sample_size"`
	SeedExamples     bool          `yaml:"seed_examples"`
	SSEThrottle      time.Duration `yaml:"sse_throttle"`
	SessionIdle      time.Duration `yaml:"session_idle"`
}

// Validate validates the dashboard configuration.
func (c *DashboardConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.RefreshInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Timezone, validation.By(validTimezone)),
		validation.Field(&c.UpcomingDays, validation.Required, validation.Min(1), validation.Max(366)),
		validation.Field(&c.RecentWindowDays, validation.Required, validation.Min(1), validation.Max(366)),
		validation.Field(&c.RecentSampleSize, validation.Required, validation.Min(1), validation.Max(50)),
		validation.Field(&c.SSEThrottle, validation.Min(time.Duration(0))),
		validation.Field(&c.SessionIdle, validation.Min(time.Duration(0))),
	)
}

// Location resolves Timezone. An empty zone means the host's local zone.
func (c *DashboardConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func validTimezone(v any) error {
	name, _ := v.(string)
	if name == "" {
		return nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return validation.NewError("validation_timezone_invalid", "unknown time zone")
	}
	return nil
}

// ImportConfig configures the import drop folder.
type ImportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`

	// Settle is how long a file must stay unmodified before it is read.
	Settle time.Duration `yaml:"settle"`
}

// Validate validates the import configuration.
func (c *ImportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Settle, validation.Min(time.Duration(0))),
	)
}

// AMQPConfig configures change-event publishing. An empty URL disables it.
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Enabled reports whether change events are published.
func (c *AMQPConfig) Enabled() bool {
	return c.URL != ""
}

// Validate validates the AMQP configuration.
func (c *AMQPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Exchange, validation.When(c.Enabled(), validation.Required)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./tablero.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Dashboard: DashboardConfig{
			RefreshInterval:  dashboard.DefaultRefreshInterval,
			Timezone:         "Europe/Madrid",
			UpcomingDays:     activity.DefaultUpcomingDays,
			RecentWindowDays: activity.DefaultRecentWindowDays,
			RecentSampleSize: activity.DefaultSampleSize,
			SeedExamples:     true,
			SSEThrottle:      2 * time.Second,
			SessionIdle:      time.Hour,
		},
		Import: ImportConfig{
			Enabled: false,
			Dir:     "./import",
			Settle:  time.Second,
		},
		AMQP: AMQPConfig{
			Exchange: "tablero.changes",
		},
	}
}
