package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info", Format: "auto"},
		Metadata: MetadataConfig{BasePath: "/some/path"},
		Auth: AuthConfig{
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 720 * time.Hour,
			LoginRateLimit:       10,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevelsAndFormats(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "trace"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Logger.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestValidate_EmptyMetadataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Metadata.BasePath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata base path cannot be empty")
}

func TestValidate_RateLimitAndDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.LoginRateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Auth.AccessTokenDuration = 0
	assert.Error(t, cfg.Validate())
}

func TestExpandMetadataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.expandMetadataPath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "MusicGraph", "metadata"), cfg.Metadata.BasePath)
}

func TestExpandMetadataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{Metadata: MetadataConfig{BasePath: "~/my-data"}}

	require.NoError(t, cfg.expandMetadataPath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "my-data"), cfg.Metadata.BasePath)
}

func TestExpandMetadataPath_RelativePath(t *testing.T) {
	cfg := &Config{Metadata: MetadataConfig{BasePath: "relative/path"}}

	require.NoError(t, cfg.expandMetadataPath())

	assert.True(t, filepath.IsAbs(cfg.Metadata.BasePath))
	assert.Contains(t, cfg.Metadata.BasePath, "relative/path")
}

func TestExpandDatabasePath_DefaultsUnderMetadata(t *testing.T) {
	cfg := &Config{Metadata: MetadataConfig{BasePath: "/data"}}

	require.NoError(t, cfg.expandDatabasePath())

	assert.Equal(t, "/data/musicgraph.db", cfg.Database.Path)
	assert.Equal(t, "/data/search", cfg.SearchIndexPath())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENV", "staging")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GENRE_REJECT_CYCLES", "false")

	cfg, err := Load([]string{
		"-metadata-path", dir,
		"-port", "7000",
		"-env-file", filepath.Join(dir, "missing.env"),
		"-cors-origins", "http://a.test, http://b.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.False(t, cfg.Graph.RejectCycles)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, filepath.Join(dir, "musicgraph.db"), cfg.Database.Path)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load([]string{"-metadata-path", t.TempDir(), "-access-token-duration", "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_token_duration")
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `# Test env file
MG_TEST_ENV=staging
MG_TEST_LEVEL=debug
# Comment line
MG_TEST_QUOTED="some value"
MG_TEST_SINGLE='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, k := range []string{"MG_TEST_ENV", "MG_TEST_LEVEL", "MG_TEST_QUOTED", "MG_TEST_SINGLE"} {
		t.Setenv(k, "")
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("MG_TEST_ENV"))
	assert.Equal(t, "debug", os.Getenv("MG_TEST_LEVEL"))
	assert.Equal(t, "some value", os.Getenv("MG_TEST_QUOTED"))
	assert.Equal(t, "another value", os.Getenv("MG_TEST_SINGLE"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("MG_TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`MG_TEST_VAR=new-value`), 0o644))

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "original-value", os.Getenv("MG_TEST_VAR"))
}
