// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Metadata  MetadataConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Auth      AuthConfig
	Graph     GraphConfig
	Bootstrap BootstrapConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // pretty, json, text, or auto
}

// MetadataConfig holds on-disk state configuration (auth key, search index).
type MetadataConfig struct {
	BasePath string
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string // default: {metadata}/musicgraph.db
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string        // Server port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins    []string      // Allowed CORS origins; empty disables CORS
	MetricsEnabled bool          // Expose /metrics (default: true)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes)
	AccessTokenKey []byte
	// Session durations
	AccessTokenDuration  time.Duration // e.g., 15m
	RefreshTokenDuration time.Duration // e.g., 720h (30 days)
	// Login attempts allowed per minute per client IP.
	LoginRateLimit int
	LoginRateBurst int
}

// GraphConfig controls genre graph validation.
type GraphConfig struct {
	// RejectCycles enables the full ancestor walk on genre writes.
	// When false only direct self-parenting is rejected.
	RejectCycles bool
}

// BootstrapConfig seeds an empty database on first start.
type BootstrapConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	SeedDefaults  bool
}

// HasAdmin reports whether a bootstrap admin was configured.
func (b BootstrapConfig) HasAdmin() bool {
	return b.AdminUsername != "" && b.AdminEmail != "" && b.AdminPassword != ""
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with an explicit argument list.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("musicgraph", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (pretty, json, text, auto)")
	metadataPath := fs.String("metadata-path", "", "Base path for metadata storage")
	databasePath := fs.String("database-path", "", "Path to the SQLite database")

	// Auth flags
	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (e.g., 15m)")
	refreshTokenDuration := fs.String("refresh-token-duration", "", "Refresh token lifetime (e.g., 720h)")
	loginRateLimit := fs.String("login-rate-limit", "", "Login attempts per minute per IP (default: 10)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")
	metricsEnabled := fs.String("metrics", "", "Expose Prometheus metrics (default: true)")

	rejectCycles := fs.String("reject-cycles", "", "Reject genre parent cycles (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", "auto"),
		},
		Metadata: MetadataConfig{
			BasePath: getConfigValue(*metadataPath, "METADATA_PATH", ""),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(*databasePath, "DATABASE_PATH", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins:    splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "")),
			MetricsEnabled: getBoolConfigValue(*metricsEnabled, "METRICS_ENABLED", true),
		},
		Auth: AuthConfig{
			AccessTokenKey: nil, // Set by the auth key provider
			LoginRateLimit: getIntConfigValue(*loginRateLimit, "LOGIN_RATE_LIMIT", 10),
			LoginRateBurst: getIntConfigValue("", "LOGIN_RATE_BURST", 5),
		},
		Graph: GraphConfig{
			RejectCycles: getBoolConfigValue(*rejectCycles, "GENRE_REJECT_CYCLES", true),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: getConfigValue("", "BOOTSTRAP_ADMIN_USERNAME", ""),
			AdminEmail:    getConfigValue("", "BOOTSTRAP_ADMIN_EMAIL", ""),
			AdminPassword: getConfigValue("", "BOOTSTRAP_ADMIN_PASSWORD", ""),
			SeedDefaults:  getBoolConfigValue("", "SEED_DEFAULTS", false),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*accessTokenDuration, "ACCESS_TOKEN_DURATION", "15m", &cfg.Auth.AccessTokenDuration},
		{*refreshTokenDuration, "REFRESH_TOKEN_DURATION", "720h", &cfg.Auth.RefreshTokenDuration},
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandMetadataPath(); err != nil {
		return nil, fmt.Errorf("invalid metadata path: %w", err)
	}
	if err := cfg.expandDatabasePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "" {
		validFormats := map[string]bool{"pretty": true, "json": true, "text": true, "auto": true}
		if !validFormats[strings.ToLower(c.Logger.Format)] {
			return fmt.Errorf("invalid log format: %s (must be pretty, json, text, or auto)", c.Logger.Format)
		}
	}

	if c.Metadata.BasePath == "" {
		return errors.New("metadata base path cannot be empty after expansion")
	}

	if c.Auth.AccessTokenDuration <= 0 || c.Auth.RefreshTokenDuration <= 0 {
		return errors.New("token durations must be positive")
	}

	if c.Auth.LoginRateLimit <= 0 {
		return fmt.Errorf("invalid login rate limit: %d (must be positive)", c.Auth.LoginRateLimit)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandMetadataPath defaults to ~/MusicGraph/metadata.
func (c *Config) expandMetadataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "MusicGraph", "metadata")

	expanded, err := expandPath(c.Metadata.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Metadata.BasePath = expanded
	return nil
}

// expandDatabasePath defaults to {metadata}/musicgraph.db.
func (c *Config) expandDatabasePath() error {
	expanded, err := expandPath(c.Database.Path, filepath.Join(c.Metadata.BasePath, "musicgraph.db"))
	if err != nil {
		return err
	}
	c.Database.Path = expanded
	return nil
}

// SearchIndexPath returns the directory of the bleve index.
func (c *Config) SearchIndexPath() string {
	return filepath.Join(c.Metadata.BasePath, "search")
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envKey != "" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return envValue
		}
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment wins over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
