package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
		Resolver: ResolverConfig{
			SimilarityThreshold: 95,
			MinRatings:          1000,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
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

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_ResolverBounds(t *testing.T) {
	tests := []struct {
		name       string
		threshold  int
		minRatings int
		valid      bool
	}{
		{"defaults", 95, 1000, true},
		{"zero threshold", 0, 1000, true},
		{"max threshold", 100, 1000, true},
		{"threshold too high", 101, 1000, false},
		{"negative threshold", -1, 1000, false},
		{"zero min ratings", 95, 0, true},
		{"negative min ratings", 95, -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Resolver.SimilarityThreshold = tt.threshold
			cfg.Resolver.MinRatings = tt.minRatings

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name        string
		path        string
		defaultPath string
		want        string
	}{
		{"empty uses default", "", "/default", "/default"},
		{"absolute unchanged", "/abs/path", "/default", "/abs/path"},
		{"tilde expanded", "~/data", "/default", filepath.Join(home, "data")},
		{"cleaned", "/a/b/../c", "/default", "/a/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.defaultPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SHELFSCOPE_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SHELFSCOPE_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SHELFSCOPE_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SHELFSCOPE_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"TRUE", true},
		{"false", false},
		{"0", false},
		{"anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, getBoolConfigValue(tt.value, "UNSET_KEY", !tt.want))
		})
	}
}

func TestGetIntConfigValue(t *testing.T) {
	assert.Equal(t, 42, getIntConfigValue("42", "UNSET_KEY", 7))
	assert.Equal(t, 7, getIntConfigValue("", "UNSET_KEY", 7))
	assert.Equal(t, 7, getIntConfigValue("not-a-number", "UNSET_KEY", 7))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\nSHELFSCOPE_ENVFILE_A=hello\nSHELFSCOPE_ENVFILE_B=\"quoted\"\n\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("SHELFSCOPE_ENVFILE_A")
		os.Unsetenv("SHELFSCOPE_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("SHELFSCOPE_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("SHELFSCOPE_ENVFILE_B"))
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(envPath, []byte("SHELFSCOPE_ENVFILE_C=file\n"), 0o600))
	t.Setenv("SHELFSCOPE_ENVFILE_C", "env")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "env", os.Getenv("SHELFSCOPE_ENVFILE_C"))
}
