package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/leads/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantLogFormat string
		wantAPIURL    string
		args          []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"LEADS_LOG_LEVEL":  "debug",
				"LEADS_LOG_FORMAT": "json",
				"LEADS_API_URL":    "https://crm.example.com/api",
			},
			args:          []string{},
			wantLogLevel:  "debug",
			wantLogFormat: "json",
			wantAPIURL:    "https://crm.example.com/api",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"LEADS_LOG_LEVEL":  "debug",
				"LEADS_LOG_FORMAT": "json",
			},
			args:          []string{"--log-level", "error", "--log-format", "text"},
			wantLogLevel:  "error",
			wantLogFormat: "text",
		},
		"partial environment variable override": {
			envVars: map[string]string{
				"LEADS_LOG_LEVEL": "warn",
			},
			args:          []string{"--log-format", "json", "--api-url", "http://localhost:4000"},
			wantLogLevel:  "warn",
			wantLogFormat: "json",
			wantAPIURL:    "http://localhost:4000",
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "info",
			wantLogFormat: "text",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)

			apiURL, err := cmd.Flags().GetString("api-url")
			require.NoError(t, err)
			assert.Equal(t, tc.wantAPIURL, apiURL)
		})
	}
}

func TestBindEnvVarsSubcommand(t *testing.T) {
	t.Setenv("LEADS_LIST_LIMIT", "25")
	t.Setenv("LEADS_DELETE_YES", "true")

	cmd := cli.NewRootCmd()

	list, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	limit, err := list.Flags().GetInt("limit")
	require.NoError(t, err)
	assert.Equal(t, 25, limit)

	del, _, err := cmd.Find([]string{"delete"})
	require.NoError(t, err)

	yes, err := del.Flags().GetBool("yes")
	require.NoError(t, err)
	assert.True(t, yes)
}

func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$LEADS_LOG_LEVEL")

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Contains(t, configFlag.Usage, "$LEADS_CONFIG")

	watchFlag := cmd.Flags().Lookup("watch-config")
	require.NotNil(t, watchFlag)
	assert.Contains(t, watchFlag.Usage, "$LEADS_WATCH_CONFIG")

	list, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	searchFlag := list.Flags().Lookup("search")
	require.NotNil(t, searchFlag)
	assert.Contains(t, searchFlag.Usage, "$LEADS_LIST_SEARCH")
}
