package cli

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/macropower/leads/pkg/api"
	"github.com/macropower/leads/pkg/config"
	"github.com/macropower/leads/pkg/stats"
	"github.com/macropower/leads/pkg/ui/theme"
)

// app holds what every command builds from the configuration.
type app struct {
	cfg    *config.Config
	client *api.Client
	theme  *theme.Theme
	path   string
}

func (ra *RootArgs) configPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return config.GetPath()
}

// loadConfig reads the configuration file. A missing or unreadable file
// falls back to the defaults, an invalid one is an error.
func (ra *RootArgs) loadConfig() (*config.Config, error) {
	path := ra.configPath()

	cl, err := config.NewLoaderFromFile(path)
	if err != nil {
		slog.Debug("could not read config, using defaults", slog.String("path", path), slog.Any("err", err))

		return ra.applyOverrides(config.NewConfig()), nil
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return ra.applyOverrides(cfg), nil
}

func (ra *RootArgs) applyOverrides(cfg *config.Config) *config.Config {
	if ra.APIURL != "" {
		cfg.API.BaseURL = ra.APIURL
	}

	return cfg
}

func (ra *RootArgs) newApp() (*app, error) {
	cfg, err := ra.loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.ClientOpts()...)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	return &app{
		cfg:    cfg,
		client: client,
		theme:  theme.New(cfg.UI.Theme),
		path:   ra.configPath(),
	}, nil
}

func (a *app) statsLoader() *stats.Loader {
	return stats.NewLoader(a.client, a.cfg.Stats.LoaderOpts()...)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
