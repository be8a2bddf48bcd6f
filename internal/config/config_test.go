package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/laundry/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "laundry.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "laundry.json", c.Data.Path)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "classic", c.UI.Theme)
	assert.Equal(t, time.Minute, c.Expiry.Interval)
	assert.Equal(t, int64(5<<20), c.Image.MaxBytes)

	s, err := c.DefaultSettings()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), s)
}

func TestLoadFile(t *testing.T) {
	p := writeConfig(t, `
data:
  path: /tmp/wash.json
ui:
  theme: neon
expiry:
  interval: 30s
defaults:
  totalPackageWeight: 60
  currentWeight: 60
  expirationDate: "2027-02-01"
  minLoadWeight: 3
  maxLoadWeight: 7
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/wash.json", c.Data.Path)
	assert.Equal(t, "neon", c.UI.Theme)
	assert.Equal(t, 30*time.Second, c.Expiry.Interval)

	s, err := c.DefaultSettings()
	require.NoError(t, err)
	assert.Equal(t, 60.0, s.TotalPackageWeight)
	assert.Equal(t, "2027-02-01", s.ExpirationDate.String())
	assert.Equal(t, 5.0, (s.MinLoadWeight+s.MaxLoadWeight)/2)
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "log:\n  level: info\n")
	t.Setenv("LAUNDRY_LOG_LEVEL", "debug")
	t.Setenv("LAUNDRY_DATA_PATH", "/var/tmp/x.json")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "/var/tmp/x.json", c.Data.Path)
}

func TestLoadRejectsBadDefaults(t *testing.T) {
	p := writeConfig(t, "defaults:\n  minLoadWeight: 20\n  maxLoadWeight: 10\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "minLoadWeight")

	p = writeConfig(t, "defaults:\n  expirationDate: someday\n")
	_, err = Load(p)
	assert.ErrorContains(t, err, "expirationDate")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
