package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfig(t *testing.T) {
	req := require.New(t)
	writeConfig(t, `
http:
  addr: ":3000"
logging:
  env: "prod"
  backend: "zap"
stream:
  pingEvery: "20s"
  sendTimeout: "2s"
`)

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal(":3000", cfg.HTTP.Addr)
	req.Equal("prod", cfg.Logging.Env)
	req.Equal("zap", cfg.Logging.Backend)
	req.Equal(20*time.Second, cfg.PingEveryOr(15*time.Second))
	req.Equal(2*time.Second, cfg.SendTimeoutOr(5*time.Second))
}

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	writeConfig(t, `
http:
  addr: ":3000"
`)

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal("room-service", cfg.Logging.Service)
	req.Equal("dev", cfg.Logging.Env)
	req.Equal("std", cfg.Logging.Backend)
	req.Equal(15*time.Second, cfg.PingEveryOr(15*time.Second))
}

func TestLoadConfig_MissingAddr(t *testing.T) {
	writeConfig(t, `
logging:
  env: "dev"
`)

	_, err := LoadConfig()
	require.Error(t, err)
}
