package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/leads/pkg/api"
	"github.com/macropower/leads/pkg/config"
	"github.com/macropower/leads/pkg/fetcher"
	"github.com/macropower/leads/pkg/stats"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	assert.Equal(t, config.APIVersion, cfg.APIVersion)
	assert.Equal(t, config.Kind, cfg.Kind)
	require.NotNil(t, cfg.API)
	require.NotNil(t, cfg.Table)
	require.NotNil(t, cfg.Stats)
	require.NotNil(t, cfg.UI)

	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, api.DefaultTimeout, *cfg.API.Timeout)
	assert.Zero(t, *cfg.API.Retries)
	assert.Equal(t, fetcher.DefaultLimit, cfg.Table.PageSize)
	assert.Equal(t, 1, cfg.Table.InitialPage)
	assert.Equal(t, stats.DefaultTodayIndex, *cfg.Stats.TodayIndex)

	require.NoError(t, cfg.Validate())
}

func TestConfig_EnsureDefaultsKeepsValues(t *testing.T) {
	t.Parallel()

	timeout := 5 * time.Second
	idx := -1

	cfg := &config.Config{
		API:   &config.APIConfig{BaseURL: "https://crm.example.com/api", Timeout: &timeout},
		Table: &config.TableConfig{PageSize: 25, InitialPage: 3},
		Stats: &config.StatsConfig{TodayIndex: &idx},
	}
	cfg.EnsureDefaults()

	assert.Equal(t, "https://crm.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, timeout, *cfg.API.Timeout)
	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Equal(t, 3, cfg.Table.InitialPage)
	assert.Equal(t, -1, *cfg.Stats.TodayIndex)
	assert.Len(t, cfg.API.ClientOpts(), 3)
	assert.Len(t, cfg.Table.FetcherOpts(), 3)
	assert.Len(t, cfg.Stats.LoaderOpts(), 2)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		mutate func(c *config.Config)
		want   string
	}{
		"non http base url": {
			mutate: func(c *config.Config) { c.API.BaseURL = "ftp://crm.example.com" },
			want:   "api.baseURL",
		},
		"base url without host": {
			mutate: func(c *config.Config) { c.API.BaseURL = "http://" },
			want:   "api.baseURL",
		},
		"zero api timeout": {
			mutate: func(c *config.Config) {
				d := time.Duration(0)
				c.API.Timeout = &d
			},
			want: "api.timeout",
		},
		"negative table timeout": {
			mutate: func(c *config.Config) {
				d := -time.Second
				c.Table.Timeout = &d
			},
			want: "table.timeout",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	out, err := cfg.MarshalYAML()
	require.NoError(t, err)

	// The output must load back into an equivalent configuration.
	got, err := config.NewLoaderFromBytes(out).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.API.BaseURL, got.API.BaseURL)
	assert.Equal(t, *cfg.API.Timeout, *got.API.Timeout)
	assert.Equal(t, cfg.Table.PageSize, got.Table.PageSize)
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	t.Run("new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		require.NoError(t, config.WriteDefaultConfig(path, false))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultYAML(), data)

		schema, err := os.ReadFile(filepath.Join(filepath.Dir(path), "config.v1beta1.json"))
		require.NoError(t, err)
		assert.Equal(t, config.Schema(), schema)
	})

	t.Run("keeps existing file", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "custom: true\n")
		require.NoError(t, config.WriteDefaultConfig(path, false))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "custom: true\n", string(data))
	})

	t.Run("force backs up existing file", func(t *testing.T) {
		t.Parallel()

		path := createTempFile(t, "custom: true\n")
		require.NoError(t, config.WriteDefaultConfig(path, true))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultYAML(), data)

		backups, err := filepath.Glob(path + ".*.old")
		require.NoError(t, err)
		assert.Len(t, backups, 1)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		err := config.WriteDefaultConfig(t.TempDir(), false)
		assert.ErrorContains(t, err, "path is a directory")
	})
}

func TestGetPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "leads", "config.yaml"), config.GetPath())
}

func createTempFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}
