package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstudio/internal/config"
	"github.com/goliatone/go-formstudio/pkg/playground"
	"github.com/goliatone/go-formstudio/pkg/preview"
	"github.com/goliatone/go-formstudio/pkg/renderers/tui"
)

// app carries what every command needs once the configuration is loaded.
type app struct {
	stdout io.Writer
	stderr io.Writer
	driver tui.PromptDriver

	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formstudio",
		Short: "Edit form examples and sync them into a live form",
		Long: `formstudio keeps a text buffer per artifact of a form example (schema,
UI schema, data and translations), validates edits as you make them and
applies them to a live form rendered in the terminal.

Examples:
  formstudio list                          # List the catalog
  formstudio show person --kind data       # Print one buffer
  formstudio preview person                # Render a report of the form
  formstudio check person.data.json        # Diagnose an edited file
  formstudio session person                # Interactive playground`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./formstudio.yaml or ~/.config/formstudio/formstudio.yaml)")
	flags.String("catalog", "", "directory of catalog files (default: embedded examples)")
	flags.String("openapi", "", "OpenAPI document path or URL whose component schemas become examples")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newPreviewCommand(a),
		newCheckCommand(a),
		newAssociationsCommand(a),
		newSessionCommand(a),
	)
	return cmd
}

var flagKeys = map[string]string{
	"catalog":   config.KeyCatalogDir,
	"openapi":   config.KeyOpenAPI,
	"log-level": config.KeyLogLevel,
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.New(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	a.logger.Debug("configuration loaded", "file", v.ConfigFileUsed(), "catalog", cfg.CatalogDir, "openapi", cfg.OpenAPI)
	return nil
}

func (a *app) prompts() tui.PromptDriver {
	if a.driver == nil {
		a.driver = tui.NewSurveyDriver(a.stdout)
	}
	return a.driver
}

func (a *app) previewRenderer() (*preview.Renderer, error) {
	var engineOpts []preview.EngineOption
	if a.cfg.TemplateDir != "" {
		engineOpts = append(engineOpts, preview.WithBaseDir(a.cfg.TemplateDir), preview.WithFS(preview.TemplatesFS()))
	}
	engine, err := preview.NewEngine(engineOpts...)
	if err != nil {
		return nil, err
	}
	return preview.New(preview.WithEngine(engine), preview.WithOutput(a.stdout))
}

// playground loads the configured catalog and wires both renderers. Later
// options win over the configured ones.
func (a *app) playground(ctx context.Context, opts ...playground.Option) (*playground.Playground, error) {
	cat, err := playground.LoadCatalog(ctx, playground.Sources{
		Dir:     a.cfg.CatalogDir,
		OpenAPI: a.cfg.OpenAPI,
	})
	if err != nil {
		return nil, err
	}
	report, err := a.previewRenderer()
	if err != nil {
		return nil, err
	}
	form := tui.New(
		tui.WithPromptDriver(a.prompts()),
		tui.WithLogger(a.logger),
	)

	base := []playground.Option{
		playground.WithLogger(a.logger),
		playground.WithCatalog(cat),
		playground.WithSettings(a.cfg.Settings()),
		playground.WithNotificationDuration(a.cfg.NotificationDuration),
		playground.WithFormOnly(a.cfg.FormOnly),
		playground.WithRenderers(form, report),
	}
	return playground.New(append(base, opts...)...)
}
