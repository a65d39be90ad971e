package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://fakestoreapi.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 2, cfg.RateLimit.RequestsPerSecond)
	assert.Nil(t, cfg.Catalog.Discounts)
}

func TestLoadDiscountOverrides(t *testing.T) {
	path := writeConfigFile(t, "catalog:\n  discounts:\n    2: 10\n    4: 55\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 10, 4: 55}, cfg.Catalog.Discounts)
}

func TestLoadRejectsNonNumericDiscountKey(t *testing.T) {
	path := writeConfigFile(t, "catalog:\n  discounts:\n    backpack: 10\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backpack")
}
