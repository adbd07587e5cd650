// Package config provides application configuration management using Viper.
// It loads an optional .env file, a YAML file and environment variables, then
// validates the result. Sections cover the HTTP server, the database engine
// (SQLite, MySQL, PostgreSQL), the clients table, sessions, optional Basic
// authentication, rate limiting, metrics and logging.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionSecret is rejected in production / Refusé en production
const DefaultSessionSecret = "change-me-clientbook-session-secret"

// identifierPattern bounds the table and column names that reach SQL text.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all application configuration / Contient toute la configuration de l'application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Environment string            `mapstructure:"environment"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Clients     ClientsConfig     `mapstructure:"clients"`
	Backup      BackupConfig      `mapstructure:"backup"`
	Session     SessionConfig     `mapstructure:"session"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Security    SecurityConfig    `mapstructure:"security"`
	Cors        CorsConfig        `mapstructure:"cors"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds server configuration / Configuration serveur
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Per-request context deadline
	BaseURL        string        `mapstructure:"base_url"`
}

// DatabaseConfig holds database-specific configuration / Configuration de la base de données
type DatabaseConfig struct {
	Type           string `mapstructure:"type"`            // Database type: "sqlite", "mysql", or "postgres"
	DSN            string `mapstructure:"dsn"`             // Data Source Name for connecting to the database
	MigrationsPath string `mapstructure:"migrations_path"` // Migration directory, empty uses the embedded files
	AutoMigrate    bool   `mapstructure:"auto_migrate"`    // Create the clients table on startup
	MaxOpenConns   int    `mapstructure:"max_open_conns"`  // Maximum number of open connections (default: 25)
	MaxIdleConns   int    `mapstructure:"max_idle_conns"`  // Maximum number of idle connections (default: 5)
}

// ClientsConfig holds the clients table layout / Structure de la table clients
type ClientsConfig struct {
	Table       string `mapstructure:"table"`        // Table name (default: Clients)
	IDColumn    string `mapstructure:"id_column"`    // Identifier column (default: ID)
	PageSize    int    `mapstructure:"page_size"`    // Rows per list page (default: 10)
	RecentLimit int    `mapstructure:"recent_limit"` // Rows on the dashboard (default: 5)
}

// BackupConfig holds database backup configuration / Configuration des sauvegardes de la base de données
type BackupConfig struct {
	Enabled       bool          `mapstructure:"enabled"`        // Enable automatic backups / Active les sauvegardes automatiques
	Interval      time.Duration `mapstructure:"interval"`       // Backup interval (default: 24h) / Intervalle de sauvegarde
	Path          string        `mapstructure:"path"`           // Directory to store backups / Répertoire de stockage
	RetentionDays int           `mapstructure:"retention_days"` // Number of days to keep backups / Nombre de jours de rétention
}

// SessionConfig holds flash cookie configuration / Configuration du cookie flash
type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`        // HMAC key for signed cookies
	CookieSecure bool          `mapstructure:"cookie_secure"` // Secure flag on cookies
	FlashTTL     time.Duration `mapstructure:"flash_ttl"`     // Lifetime of an unread flash message
}

// AuthConfig holds optional Basic authentication / Authentification Basic optionnelle
type AuthConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // bcrypt hash
	Realm        string `mapstructure:"realm"`
}

// SecurityConfig holds security settings / Paramètres de sécurité
type SecurityConfig struct {
	TrustedProxies []string `mapstructure:"trusted_proxies"`
	CSRFEnabled    bool     `mapstructure:"csrf_enabled"`
}

// CorsConfig holds CORS configuration / Configuration CORS
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimiterConfig holds rate limiter configuration / Configuration limiteur de débit
type RateLimiterConfig struct {
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
	Enabled bool    `mapstructure:"enabled"`
}

// MetricsConfig holds Prometheus exposition settings / Configuration des métriques
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration / Configuration logging
type LoggingConfig struct {
	Level         string            `mapstructure:"level"`
	Format        string            `mapstructure:"format"`
	LokiEnabled   bool              `mapstructure:"loki_enabled"`
	LokiURL       string            `mapstructure:"loki_url"`
	LokiLabels    map[string]string `mapstructure:"loki_labels"`
	LokiBatchSize int               `mapstructure:"loki_batch_size"`
}

// IsProduction checks if environment is production / Vérifie si l'environnement est production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment checks if environment is development / Vérifie si l'environnement est development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("environment", "development")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "clients.db")
	v.SetDefault("database.migrations_path", "")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("clients.table", "Clients")
	v.SetDefault("clients.id_column", "ID")
	v.SetDefault("clients.page_size", 10)
	v.SetDefault("clients.recent_limit", 5)

	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.interval", "24h")
	v.SetDefault("backup.path", "./backups")
	v.SetDefault("backup.retention_days", 7)

	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.flash_ttl", "5m")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.realm", "clientbook")

	v.SetDefault("security.trusted_proxies", []string{}) // Don't trust proxy headers unless explicitly configured
	v.SetDefault("security.csrf_enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:8080"})

	v.SetDefault("rate_limiter.rps", 10)
	v.SetDefault("rate_limiter.burst", 20)
	v.SetDefault("rate_limiter.enabled", true)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.loki_enabled", false)
	v.SetDefault("logging.loki_url", "http://localhost:3100")
	v.SetDefault("logging.loki_labels", map[string]string{
		"app":         "clientbook",
		"environment": "development",
	})
	v.SetDefault("logging.loki_batch_size", 10)
}

// LoadConfig loads configuration from .env, YAML and env vars / Charge la config depuis .env, YAML et variables d'env
func LoadConfig() (*Config, error) {
	// .env never overrides variables already set in the process environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind the variable names the deployment already uses
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("session.secret", "SECRET_KEY")
	v.BindEnv("auth.password_hash", "AUTH_PASSWORD_HASH")

	var cfg Config
	err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates configuration / Valide la configuration
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateClients,
		c.validateSession,
		c.validateAuth,
		c.validateRateLimiter,
		c.validateBackup,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}

// validateDatabase validates database configuration
func (c *Config) validateDatabase() error {
	validDBTypes := []string{"sqlite", "sqlite3", "mysql", "postgres", "postgresql", ""}
	dbType := strings.ToLower(c.Database.Type)

	if !slices.Contains(validDBTypes, dbType) {
		return errors.New("database.type must be one of: sqlite, mysql, postgres")
	}

	if c.IsProduction() && c.Database.DSN == "" {
		return errors.New("database.dsn is required in production")
	}

	return nil
}

// validateClients rejects identifiers that could not be safely quoted
func (c *Config) validateClients() error {
	if c.Clients.Table != "" && !identifierPattern.MatchString(c.Clients.Table) {
		return fmt.Errorf("clients.table %q is not a valid identifier", c.Clients.Table)
	}
	if c.Clients.IDColumn != "" && !identifierPattern.MatchString(c.Clients.IDColumn) {
		return fmt.Errorf("clients.id_column %q is not a valid identifier", c.Clients.IDColumn)
	}
	if c.Clients.PageSize < 0 {
		return errors.New("clients.page_size must not be negative")
	}
	return nil
}

// validateSession validates the signing secret
func (c *Config) validateSession() error {
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if c.IsProduction() {
		if c.Session.Secret == DefaultSessionSecret {
			return errors.New("session.secret cannot use default value in production - set SECRET_KEY environment variable")
		}
		if len(c.Session.Secret) < 32 {
			return errors.New("session.secret must be ≥32 chars in production")
		}
		if !c.Session.CookieSecure {
			return errors.New("session.cookie_secure must be true in production")
		}
	}
	return nil
}

// validateAuth validates Basic authentication settings
func (c *Config) validateAuth() error {
	if !c.Auth.Enabled {
		return nil
	}
	if c.Auth.Username == "" {
		return errors.New("auth.username is required when auth is enabled")
	}
	if c.Auth.PasswordHash == "" {
		return errors.New("auth.password_hash is required when auth is enabled - set AUTH_PASSWORD_HASH")
	}
	return nil
}

// validateRateLimiter validates rate limiter configuration
func (c *Config) validateRateLimiter() error {
	if !c.RateLimiter.Enabled {
		return nil
	}

	if c.RateLimiter.RPS <= 0 {
		return errors.New("rate_limiter.rps must be positive when enabled")
	}

	if c.RateLimiter.Burst <= 0 {
		return errors.New("rate_limiter.burst must be positive when enabled")
	}

	return nil
}

// validateBackup validates backup configuration
func (c *Config) validateBackup() error {
	if !c.Backup.Enabled {
		return nil
	}

	if c.Backup.Interval <= 0 {
		return errors.New("backup.interval must be positive when enabled")
	}

	if c.Backup.Path == "" {
		return errors.New("backup.path is required when enabled")
	}

	if c.Backup.RetentionDays < 0 {
		return errors.New("backup.retention_days must not be negative")
	}

	return nil
}
