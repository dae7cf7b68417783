package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  environment: test
  port: "9090"
  allowed_cors_domains:
    - http://localhost:3000
    - http://localhost:4000
  jwt_signing_key: 0123456789abcdef0123
gin:
  mode: test
database:
  driver: sqlite
reward:
  per_point: 3
  cycle_interval: 10m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:4000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, DriverSQLite, conf.Database.Driver)
	assert.Equal(t, 3, conf.Reward.PerPoint)
	assert.Equal(t, 10*time.Minute, conf.Reward.CycleInterval)

	// defaults
	assert.Equal(t, 5*time.Minute, conf.Reward.SupervisorInterval)
	assert.Equal(t, 5*time.Second, conf.Reward.InitialDelay)
	assert.Equal(t, "rewards", conf.Reward.Channel)
	assert.Equal(t, "captures", conf.Notify.CaptureChannel)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REWARD_PER_POINT", "5")
	t.Setenv("API_PORT", "7070")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 5, conf.Reward.PerPoint)
	assert.Equal(t, "7070", conf.API.Port)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "short signing key",
			body: "api:\n  jwt_signing_key: short\ndatabase:\n  driver: sqlite\n",
		},
		{
			name: "unknown driver",
			body: "api:\n  jwt_signing_key: 0123456789abcdef0123\ndatabase:\n  driver: mongo\n",
		},
		{
			name: "zero reward",
			body: "api:\n  jwt_signing_key: 0123456789abcdef0123\nreward:\n  per_point: 0\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DB: "basepoint", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=basepoint sslmode=disable", c.DSN())
}
