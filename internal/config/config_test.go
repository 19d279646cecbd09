package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("given no config file should use defaults", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Load(context.Background(), "missing")

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5227/api", cfg.Api.BaseURL)
		assert.Equal(t, 20*time.Second, cfg.Api.Timeout)
		assert.Equal(t, DefaultEndpoints(), cfg.Api.Endpoints)
		assert.Equal(t, DefaultDisplay(), cfg.Display)
		assert.False(t, cfg.Cache.Enabled)
		assert.False(t, cfg.Otel.Enabled)
		assert.Equal(t, 5227, cfg.DevServer.Port)
	})

	t.Run("given config file and env override should merge them", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "env"), 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "env", "shop.yaml"), []byte(`
api:
  base_url: https://shop.example.com/api
  timeout: 5s
  endpoints:
    favorites: /wishlist
display:
  currency_symbol: "$"
`), 0o600))
		chdir(t, dir)
		t.Setenv("STOREFRONT_CACHE_ENABLED", "true")

		cfg, err := Load(context.Background(), "shop")

		require.NoError(t, err)
		assert.Equal(t, "https://shop.example.com/api", cfg.Api.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Api.Timeout)
		assert.Equal(t, "/wishlist", cfg.Api.Endpoints.Favorites)
		assert.Equal(t, "/cart/add", cfg.Api.Endpoints.AddToCart)
		assert.Equal(t, "/addresses/my-addresses", cfg.Api.Endpoints.MyAddresses)
		assert.Equal(t, "$", cfg.Display.CurrencySymbol)
		assert.Equal(t, ",", cfg.Display.DecimalSeparator)
		assert.True(t, cfg.Cache.Enabled)
	})

	t.Run("given malformed config file should fail", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("api: ["), 0o600))
		chdir(t, dir)

		_, err := Load(context.Background(), "broken")

		assert.Error(t, err)
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}
