package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/leads/pkg/config"
	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/fetcher"
	"github.com/macropower/leads/pkg/log"
	"github.com/macropower/leads/pkg/mcp"
	"github.com/macropower/leads/pkg/ui"
	"github.com/macropower/leads/pkg/ui/detail"
)

const (
	cmdExamples = `  # Open the dashboard:
  leads

  # Use another backend:
  leads --api-url https://crm.example.com/api

  # Reload the dashboard when the configuration changes:
  leads --watch-config

  # Also serve the MCP tools over HTTP:
  leads --serve-mcp localhost:8081

  # List customers in a tier as JSON:
  leads list --letter B -o json

  # Send output to a file (disables TUI):
  leads > customers.txt`
)

type RunArgs struct {
	*RootArgs

	ServeMCP    string
	WatchConfig bool
	WriteConfig bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ServeMCP, "serve-mcp", "", "Serve the MCP server over HTTP at the specified address")
	cmd.Flags().BoolVarP(&ra.WatchConfig, "watch-config", "w", false, "Watch the configuration file and apply changes")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Default command, opens the customer dashboard",
		Example: cmdExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	return cmd
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	configPath := ra.configPath()

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ra.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return err
	}

	a, err := ra.newApp()
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		return showConfig(cmd.OutOrStdout(), a)
	}

	f := fetcher.New(a.client, a.cfg.Table.FetcherOpts()...)

	// If stdout is not a terminal, print the first page instead.
	if !isTerminal(os.Stdout) {
		return printFirstPage(cmd, a, f)
	}

	logBuf := log.NewCircularBuffer(100)
	logHandler, err := log.CreateHandlerWithStrings(logBuf, ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loader := a.statsLoader()

	if ra.ServeMCP != "" {
		mcpServer, err := mcp.NewServer(ra.ServeMCP, a.client, loader, mcp.WithDefaultLimit(f.Limit()))
		if err != nil {
			return fmt.Errorf("create MCP server: %w", err)
		}

		go func() {
			err := mcpServer.Serve(ctx)
			if err != nil {
				slog.Error("MCP server failed", slog.Any("err", err))
			}
		}()
	}

	deps := ui.Deps{
		Fetcher:    f,
		Stats:      loader,
		Service:    a.client,
		Highlights: a.cfg.Highlights,
		Actions:    a.cfg.Actions,
	}

	err = runUI(ctx, a.cfg, f, deps, ra.WatchConfig, configPath)
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))
		flushLogs(cmd.ErrOrStderr(), logBuf)

		return fmt.Errorf("ui program failure: %w", err)
	}

	flushLogs(cmd.ErrOrStderr(), logBuf)

	return nil
}

func showConfig(w io.Writer, a *app) error {
	slog.Info("active configuration", slog.String("path", a.path))

	yamlBytes, err := a.cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	yamlConfig := string(yamlBytes)

	pretty, err := detail.NewChromaRenderer(a.theme, true).Render(yamlConfig, 0)
	if err != nil {
		mustN(fmt.Fprintln(w, yamlConfig))

		return err
	}

	mustN(fmt.Fprintln(w, pretty))

	return nil
}

func printFirstPage(cmd *cobra.Command, a *app, f *fetcher.Fetcher) error {
	err := f.Start(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s: %w", a.cfg.Table.ErrorMessage, err)
	}

	s := f.Snapshot()
	p := &customer.Page{Customers: s.Customers, Pagination: s.Pagination}

	return writeOutput(cmd.OutOrStdout(), outputTable, p, func() string {
		return renderPage(a.theme, p, time.Now())
	})
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Int("dropped", buf.Dropped()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

// runUI starts the UI program. Fetcher events are forwarded to it, holding
// back each EventEnd until the loading state was shown for at least the
// configured minimum delay.
func runUI(ctx context.Context, cfg *config.Config, f *fetcher.Fetcher, deps ui.Deps, watch bool, path string) error {
	p := ui.NewProgram(ctx, cfg.UI, deps)

	ch := make(chan fetcher.Event)
	f.Subscribe(ch)

	go forwardEvents(ch, p, *cfg.UI.MinimumDelay)

	if watch {
		w, err := config.NewWatcher(path, reloadUI(ctx, p, f))
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}

		go w.Run(ctx)
	}

	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}

type sender interface {
	Send(msg tea.Msg)
}

func forwardEvents(ch <-chan fetcher.Event, p sender, minDelay time.Duration) {
	lastEventTime := time.Now()
	for event := range ch {
		switch e := event.(type) {
		case fetcher.EventStart:
			p.Send(e)

		case fetcher.EventEnd:
			if elapsed := time.Since(lastEventTime); elapsed < minDelay {
				// Keep the loading state from flickering.
				time.Sleep(minDelay - elapsed)
			}

			p.Send(e)

		case fetcher.EventCancel:
			p.Send(e)
		}

		lastEventTime = time.Now()
	}
}

// reloadUI applies a reloaded configuration to the running program. The
// page size is applied through the fetcher, which reloads the listing.
func reloadUI(ctx context.Context, p sender, f ui.Fetcher) func(*config.Config, error) {
	return func(cfg *config.Config, err error) {
		if err != nil {
			slog.ErrorContext(ctx, "reload config", slog.Any("err", err))
			p.Send(ui.ReloadMsg{Err: err})

			return
		}

		if size := cfg.Table.PageSize; size > 0 && size != f.Snapshot().Pagination.Limit {
			go func() {
				err := f.SetLimit(ctx, size)
				if err != nil && !errors.Is(err, fetcher.ErrSuperseded) {
					slog.ErrorContext(ctx, "apply page size", slog.Any("err", err))
				}
			}()
		}

		p.Send(ui.ReloadMsg{Theme: cfg.UI.Theme})
	}
}
