package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes the configuration variables for the duration of the test.
// t.Setenv registers the restore, os.Unsetenv makes them truly absent so
// godotenv is allowed to populate them.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigFile, EnvBaseURL, EnvRemote, EnvLogLevel, EnvLogAppName} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Arrange
	unsetEnv(t)

	// Act
	cfg, err := LoadWithEnvFiles()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Remote:     DefaultRemote,
		LogLevel:   DefaultLogLevel,
		LogAppName: DefaultLogAppName,
	}, cfg)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	// Arrange
	unsetEnv(t)
	t.Setenv(EnvBaseURL, "https://sourcegraph.example.com")
	t.Setenv(EnvRemote, "upstream")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogAppName, "repouri-test")

	// Act
	cfg, err := LoadWithEnvFiles()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://sourcegraph.example.com", cfg.BaseURL)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "repouri-test", cfg.LogAppName)
}

func TestLoad_ConfigFile(t *testing.T) {
	// Arrange
	unsetEnv(t)
	path := writeFile(t, "repouri.toml", `
base_url = "https://code.example.com"
remote = "fork"
`)
	t.Setenv(EnvConfigFile, path)

	// Act
	cfg, err := LoadWithEnvFiles()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://code.example.com", cfg.BaseURL)
	assert.Equal(t, "fork", cfg.Remote)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel, "keys absent from the file keep defaults")
	assert.Equal(t, DefaultLogAppName, cfg.LogAppName)
}

func TestLoad_EnvironmentBeatsConfigFile(t *testing.T) {
	unsetEnv(t)
	path := writeFile(t, "repouri.toml", `remote = "fork"`)
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvRemote, "upstream")

	cfg, err := LoadWithEnvFiles()

	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Remote)
}

func TestLoad_ConfigFileNotFound(t *testing.T) {
	unsetEnv(t)
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "missing.toml"))

	_, err := LoadWithEnvFiles()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_ConfigFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed TOML", content: "remote = "},
		{name: "unknown key", content: `color = "blue"`},
		{name: "wrong type", content: "remote = 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t)
			t.Setenv(EnvConfigFile, writeFile(t, "repouri.toml", tt.content))

			_, err := LoadWithEnvFiles()

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigInvalid)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	// Arrange
	unsetEnv(t)
	envFile := writeFile(t, ".env", "REPOURI_REMOTE=from-dotenv\nREPOURI_BASE_URL=http://localhost:3080\n")

	// Act
	cfg, err := LoadWithEnvFiles(envFile)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Remote)
	assert.Equal(t, "http://localhost:3080", cfg.BaseURL)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	unsetEnv(t)
	t.Setenv(EnvRemote, "from-env")
	envFile := writeFile(t, ".env", "REPOURI_REMOTE=from-dotenv\n")

	cfg, err := LoadWithEnvFiles(envFile)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Remote)
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	unsetEnv(t)

	cfg, err := LoadWithEnvFiles(filepath.Join(t.TempDir(), ".env"))

	require.NoError(t, err)
	assert.Equal(t, DefaultRemote, cfg.Remote)
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	unsetEnv(t)
	t.Setenv(EnvBaseURL, "sourcegraph.example.com")

	_, err := LoadWithEnvFiles()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBaseURL)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "empty base URL", baseURL: ""},
		{name: "https", baseURL: "https://sourcegraph.com"},
		{name: "http with port", baseURL: "http://localhost:3080"},
		{name: "https with path prefix", baseURL: "https://example.com/sourcegraph"},
		{name: "missing scheme", baseURL: "sourcegraph.com", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://sourcegraph.com", wantErr: true},
		{name: "missing host", baseURL: "https://", wantErr: true},
		{name: "unparseable", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BaseURL: tt.baseURL}

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidBaseURL)
				return
			}
			require.NoError(t, err)
		})
	}
}
