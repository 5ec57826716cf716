package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Sweep    SweepConfig    `mapstructure:"sweep" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SweepConfig tunes the recurring-task maintenance sweep.
type SweepConfig struct {
	// Time is the daily trigger time as "HH:MM" in UTC.
	Time string `mapstructure:"time" validate:"required"`

	// WindowDays is how many calendar days past the sweep time occurrences
	// must exist for.
	WindowDays int `mapstructure:"window_days" validate:"required,gte=1,lte=31"`

	// Lookahead is how many occurrences a schedule mutation re-materializes.
	Lookahead int `mapstructure:"lookahead" validate:"required,gte=1,lte=31"`

	// MaxIterations caps the per-rule window walk as a guard against a
	// malformed rule that fails to advance.
	MaxIterations int `mapstructure:"max_iterations" validate:"required,gte=1"`
}
