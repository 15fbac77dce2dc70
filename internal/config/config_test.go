package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/schedule"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: s3cret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, schedule.DefaultSessions, cfg.Schedule.Sessions)
	assert.Equal(t, schedule.DefaultInterval, cfg.Schedule.Interval)

	hours, err := cfg.Schedule.ClinicHours()
	require.NoError(t, err)
	assert.Len(t, hours.Slots(model.Date{}, 1), 15)
}

func TestLoadReadsScheduleFromFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s3cret
schedule:
  interval: 1h
  sessions:
    - start: "08:00"
      end: "10:00"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	hours, err := cfg.Schedule.ClinicHours()
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00"}, hours.Slots(model.Date{}, 1))
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\ndatabase:\n  host: db.internal\n")
	t.Setenv("DENTAL_JWT_SECRET", "from-env")
	t.Setenv("DENTAL_DATABASE_PORT", "6543")
	t.Setenv("DENTAL_OUTBOX_POLL_INTERVAL", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Outbox.PollInterval)
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadRejectsBadSchedule(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s3cret
schedule:
  sessions:
    - start: "12:00"
      end: "09:00"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", Name: "dental", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/dental?sslmode=disable", c.DSN())
}

func TestConversions(t *testing.T) {
	out := OutboxConfig{BatchSize: 5, PollInterval: time.Second, RetryAttempts: 2, MaxDeliveries: 4}
	w := out.ToWorkerConfig()
	assert.Equal(t, 5, w.BatchSize)
	assert.Equal(t, 4, w.MaxDeliveries)

	r := RedisConfig{URL: "redis://x:6379", BreakerFailures: 3}
	assert.Equal(t, uint32(3), r.ToBrokerConfig().BreakerFailures)

	s := SMTPConfig{Host: "mail", Port: 25, ClinicName: "Smile"}
	assert.Equal(t, "Smile", s.ToEmailConfig().ClinicName)
}
