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
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Data:    DataConfig{BasePath: "/data", DBPath: "/data/bookclub.db"},
		Storage: StorageConfig{Backend: StorageFilesystem, ImagesPath: "/data/images", MaxUploadBytes: 1024},
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
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_Storage(t *testing.T) {
	t.Run("s3 requires bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Backend = StorageS3
		assert.Error(t, cfg.Validate())

		cfg.Storage.S3Bucket = "covers"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Backend = "ftp"
		assert.Error(t, cfg.Validate())
	})

	t.Run("upload limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.MaxUploadBytes = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad_DefaultsAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load([]string{
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-port", "9100",
		"-access-token-duration", "2h",
	})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "flag beats env")
	assert.Equal(t, filepath.Join(dir, "bookclub.db"), cfg.Data.DBPath)
	assert.Equal(t, filepath.Join(dir, "images"), cfg.Storage.ImagesPath)
	assert.Equal(t, 2*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, StorageFilesystem, cfg.Storage.Backend)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	_, err := Load([]string{"-data-path", dir, "-env-file", "", "-read-timeout", "soon"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/club", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "club"), got)

	got, err = expandPath("/abs/../abs/path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = expandPath("relative", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("BOOKCLUB_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "BOOKCLUB_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "BOOKCLUB_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "BOOKCLUB_TEST_UNSET", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nBOOKCLUB_A=one\nBOOKCLUB_B = \"two\"\nBOOKCLUB_C=three\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("BOOKCLUB_C", "kept")
	t.Cleanup(func() {
		os.Unsetenv("BOOKCLUB_A")
		os.Unsetenv("BOOKCLUB_B")
	})

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "one", os.Getenv("BOOKCLUB_A"))
	assert.Equal(t, "two", os.Getenv("BOOKCLUB_B"))
	assert.Equal(t, "kept", os.Getenv("BOOKCLUB_C"), "existing env vars are not overwritten")
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
