package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for a geocoding batch run.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - APIKey: The API key for the geocoding provider (required for Google).
// - InputPath: The CSV file to read clinics from.
// - OutputPath: The CSV file to write results to, empty to derive it from InputPath.
// - ProviderType: The type of geocoding provider to use (google, nominatim).
// - CountryCode: The country results are restricted to (Nominatim only).
// - RequestTimeout: The timeout of a single provider request.
// - Delay: The pause after every row.
// - ProgressEvery: How often, in rows, a progress line is logged.
// - Port: The port for the monitoring server, 0 disables it.
// - Database: Configuration settings for the optional PostgreSQL result archive.
type Config struct {
	Env            string         `yaml:"env"`                   // Env is the current environment: local, dev, prod.
	APIKey         string         `yaml:"geocoder.api_key"`      // The API key for accessing external services.
	InputPath      string         `yaml:"geocoder.input"`        // Source table.
	OutputPath     string         `yaml:"geocoder.output"`       // Destination table.
	ProviderType   string         `yaml:"provider.type"`         // ProviderType specifies which geocoding provider to use
	CountryCode    string         `yaml:"provider.country"`      // ISO country code for providers that support restriction.
	RequestTimeout time.Duration  `yaml:"geocoder.timeout"`      // Timeout of one provider request.
	Delay          time.Duration  `yaml:"geocoder.delay"`        // Pause between rows.
	ProgressEvery  int            `yaml:"geocoder.progress"`     // Rows between progress lines.
	Port           int            `yaml:"geocoder.metrics_port"` // Port is the monitoring server port.
	Database       PostgresConfig `yaml:"postgres"`              // Database holds the postgres database configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// Enabled reports whether a database host is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad loads the configuration from the environment and an optional .env file.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(setDefaultEnv("GEOCODER_TIMEOUT", "10s"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	delay, err := time.ParseDuration(setDefaultEnv("GEOCODER_DELAY", "100ms"))
	if err != nil {
		panic("failed to parse delay from configuration")
	}

	progressEvery, err := strconv.Atoi(setDefaultEnv("GEOCODER_PROGRESS_EVERY", "10"))
	if err != nil {
		panic("failed to parse progress interval from configuration, must be an integer")
	}

	port, err := strconv.Atoi(setDefaultEnv("GEOCODER_METRICS_PORT", "0"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	return &Config{
		Env:            setDefaultEnv("GEOCODER_ENV", "development"),
		APIKey:         os.Getenv("GEOCODER_API_KEY"),
		InputPath:      setDefaultEnv("GEOCODER_INPUT", "input_file.csv"),
		OutputPath:     setDefaultEnv("GEOCODER_OUTPUT", "output_file.csv"),
		ProviderType:   setDefaultEnv("GEOCODER_PROVIDER", "google"),
		CountryCode:    setDefaultEnv("GEOCODER_COUNTRY", "my"),
		RequestTimeout: timeout,
		Delay:          delay,
		ProgressEvery:  progressEvery,
		Port:           port,
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
