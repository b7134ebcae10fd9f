package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/leads/pkg/action"
	"github.com/macropower/leads/pkg/api"
	"github.com/macropower/leads/pkg/fetcher"
	"github.com/macropower/leads/pkg/keys"
	"github.com/macropower/leads/pkg/rule"
	"github.com/macropower/leads/pkg/stats"
	"github.com/macropower/leads/pkg/ui"
	"github.com/macropower/leads/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1beta1.json

const (
	APIVersion = "leads.jacobcolvin.com/v1beta1"
	Kind       = "Configuration"

	// DefaultBaseURL is used when no API base URL is configured.
	DefaultBaseURL = "http://localhost:3000/api"

	schemaFile = "config.v1beta1.json"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/"+schemaFile, schemaJSON)
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// API configures the CRM backend client.
	API *APIConfig `json:"api,omitempty" jsonschema:"title=API"`
	// Table configures the paginated customer listing.
	Table *TableConfig `json:"table,omitempty" jsonschema:"title=Table"`
	// Stats configures the dashboard statistics.
	Stats *StatsConfig `json:"stats,omitempty" jsonschema:"title=Stats"`
	// UI configures the terminal interface.
	UI *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// Highlights style the customers matched by CEL rules. The first
	// matching rule wins.
	Highlights rule.Rules `json:"highlights,omitempty" jsonschema:"title=Highlights"`
	// Actions are external commands run against the selected customer.
	Actions action.Actions `json:"actions,omitempty" jsonschema:"title=Actions"`
}

// APIConfig configures the CRM backend client.
type APIConfig struct {
	// Timeout bounds each request.
	Timeout *time.Duration `json:"timeout,omitempty" jsonschema:"title=Timeout"`
	// Retries is the number of extra attempts for failed reads.
	Retries *uint `json:"retries,omitempty" jsonschema:"title=Retries"`
	// Headers are added to every request, e.g. for authentication.
	Headers map[string]string `json:"headers,omitempty" jsonschema:"title=Headers"`
	// BaseURL is the root of the REST API.
	BaseURL string `json:"baseURL,omitempty" jsonschema:"title=Base URL,format=uri"`
}

func (c *APIConfig) EnsureDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == nil {
		d := api.DefaultTimeout
		c.Timeout = &d
	}
	if c.Retries == nil {
		var r uint
		c.Retries = &r
	}
}

// ClientOpts returns the [api.ClientOpt]s described by c.
func (c *APIConfig) ClientOpts() []api.ClientOpt {
	return []api.ClientOpt{
		api.WithTimeout(*c.Timeout),
		api.WithRetries(*c.Retries),
		api.WithHeaders(c.Headers),
	}
}

// TableConfig configures the paginated customer listing.
type TableConfig struct {
	// Timeout bounds each page load. Zero disables it.
	Timeout *time.Duration `json:"timeout,omitempty" jsonschema:"title=Timeout"`
	// ErrorMessage is shown when a page fails to load.
	ErrorMessage string `json:"errorMessage,omitempty" jsonschema:"title=Error Message"`
	// PageSize is the number of customers per page.
	PageSize int `json:"pageSize,omitempty" jsonschema:"title=Page Size,minimum=1,maximum=100"`
	// InitialPage is the page loaded on start.
	InitialPage int `json:"initialPage,omitempty" jsonschema:"title=Initial Page,minimum=1"`
}

func (c *TableConfig) EnsureDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = fetcher.DefaultLimit
	}
	if c.InitialPage <= 0 {
		c.InitialPage = 1
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = fetcher.DefaultErrorMessage
	}
}

// FetcherOpts returns the [fetcher.Opt]s described by c.
func (c *TableConfig) FetcherOpts() []fetcher.Opt {
	opts := []fetcher.Opt{
		fetcher.WithLimit(c.PageSize),
		fetcher.WithInitialPage(c.InitialPage),
		fetcher.WithErrorMessage(c.ErrorMessage),
	}
	if c.Timeout != nil {
		opts = append(opts, fetcher.WithTimeout(*c.Timeout))
	}

	return opts
}

// StatsConfig configures the dashboard statistics.
type StatsConfig struct {
	// TodayIndex is the position of today's entry in the daily series.
	// Negative values count from the end.
	TodayIndex *int `json:"todayIndex,omitempty" jsonschema:"title=Today Index"`
	// Fallback values are shown for sections that failed to load.
	Fallback stats.Fallback `json:"fallback,omitempty" jsonschema:"title=Fallback"`
}

func (c *StatsConfig) EnsureDefaults() {
	if c.TodayIndex == nil {
		i := stats.DefaultTodayIndex
		c.TodayIndex = &i
	}
}

// LoaderOpts returns the [stats.LoaderOpt]s described by c.
func (c *StatsConfig) LoaderOpts() []stats.LoaderOpt {
	return []stats.LoaderOpt{
		stats.WithTodayIndex(*c.TodayIndex),
		stats.WithFallback(c.Fallback),
	}
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	if c.Stats == nil {
		c.Stats = &StatsConfig{}
	}
	if c.UI == nil {
		c.UI = &ui.Config{}
	}

	c.API.EnsureDefaults()
	c.Table.EnsureDefaults()
	c.Stats.EnsureDefaults()
	c.UI.EnsureDefaults()
}

// Validate runs the checks that the JSON schema cannot express. It also
// compiles the highlight rules.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.baseURL: %q is not an http(s) URL", c.API.BaseURL))
	}

	if c.API.Timeout != nil && *c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout: must be positive"))
	}

	if c.Table.Timeout != nil && *c.Table.Timeout < 0 {
		errs = append(errs, errors.New("table.timeout: must not be negative"))
	}

	errs = append(errs,
		c.Highlights.Compile(),
		c.Actions.Validate(),
		c.UI.Validate(),
		c.validateActionKeys(),
	)

	return errors.Join(errs...)
}

// validateActionKeys rejects action keys that shadow table bindings.
func (c *Config) validateActionKeys() error {
	binds := make([]*keys.Bind, 0, len(c.Actions))
	for _, a := range c.Actions {
		b := a.Bind()
		binds = append(binds, &b)
	}

	return keys.Validate(c.UI.KeyBinds.Common.Binds(), c.UI.KeyBinds.Table.Binds(), binds)
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	extendEnum(jss, "apiVersion", ValidAPIVersions)
	extendEnum(jss, "kind", ValidKinds)
}

func extendEnum(jss *jsonschema.Schema, property string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
		})
	}

	_, _ = jss.Properties.Set(property, prop)
}

// MarshalYAML serializes the config to YAML.
func (c *Config) MarshalYAML() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// WriteDefaultConfig writes the embedded default config.yaml and JSON schema
// to path. An existing config is kept unless force is set, in which case it
// is moved to a backup first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupPath := filepath.Join(filepath.Dir(path),
			fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano()))

		slog.Info("backing up existing config file", slog.String("path", backupPath))

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if configExists {
		slog.Debug("configuration file already exists, skipping write", slog.String("path", path))
	} else {
		slog.Info("write default configuration", slog.String("path", path))

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	schemaPath := filepath.Join(filepath.Dir(path), schemaFile)
	slog.Debug("write JSON schema", slog.String("path", schemaPath))

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// GetPath returns the default config file path.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "leads", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "leads", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "leads", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return defaultConfigYAML
}

// Schema returns the embedded JSON schema.
func Schema() []byte {
	return schemaJSON
}
