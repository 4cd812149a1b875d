package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstudio/pkg/lifecycle"
	"github.com/goliatone/go-formstudio/pkg/playground"
	"github.com/goliatone/go-formstudio/pkg/preview"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/schemacatalog"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the examples of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.playground(cmd.Context())
			if err != nil {
				return err
			}
			examples := p.Catalog().Examples()

			width := 0
			for _, example := range examples {
				if len(example.Name) > width {
					width = len(example.Name)
				}
			}

			out := cmd.OutOrStdout()
			for _, example := range examples {
				kinds := lifecycle.Kinds(example)
				names := make([]string, 0, len(kinds))
				for _, kind := range kinds {
					names = append(names, kind.String())
				}
				fmt.Fprintf(out, "  %-*s  %s (%s)\n", width, example.Name, example.Title(), strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func newShowCommand(a *app) *cobra.Command {
	var kindFlag string
	cmd := &cobra.Command{
		Use:   "show <example>",
		Short: "Print the buffers of an example",
		Long: `Print the text buffers created for an example. Without --kind every
buffer is printed, each preceded by its URI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.playground(cmd.Context(), playground.WithFormOnly(false))
			if err != nil {
				return err
			}
			if err := p.Start(args[0]); err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			if kindFlag != "" {
				kind := resource.Kind(kindFlag)
				if !kind.Valid() {
					return fmt.Errorf("unknown kind %q (want one of %s)", kindFlag, kindList())
				}
				text, ok := p.Buffer(kind)
				if !ok {
					return fmt.Errorf("example %q has no %s buffer", args[0], kind)
				}
				fmt.Fprintln(out, text)
				return nil
			}

			for _, kind := range p.Kinds() {
				text, _ := p.Buffer(kind)
				fmt.Fprintf(out, "// %s\n%s\n", resource.URI(p.Active(), kind), text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "buffer to print: "+kindList())
	return cmd
}

func newPreviewCommand(a *app) *cobra.Command {
	var dataFile string
	cmd := &cobra.Command{
		Use:   "preview <example>",
		Short: "Render a text report of an example's form",
		Long: `Render the fields, values, actions and validation issues of an example.
--data applies a data document before rendering, exactly as the data buffer
would be applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := a.cfg.Settings()
			settings.Renderers = []string{preview.Name}

			p, err := a.playground(cmd.Context(),
				playground.WithSettings(settings),
				playground.WithFormOnly(false),
				playground.WithNotificationDuration(0),
			)
			if err != nil {
				return err
			}
			if err := p.Start(args[0]); err != nil {
				return err
			}
			defer p.Close()

			if dataFile != "" {
				text, err := os.ReadFile(dataFile)
				if err != nil {
					return fmt.Errorf("read data: %w", err)
				}
				p.Edit(resource.KindData, string(text))
				if err := p.Apply(resource.KindData); err != nil {
					return err
				}
			}
			return p.RenderForm(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&dataFile, "data", "", "data document to apply before rendering")
	return cmd
}

// errIssues is returned by check when the file has error diagnostics, so the
// process exits non-zero.
var errIssues = errors.New("issues found")

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Diagnose a buffer file against the registered schemas",
		Long: `Validate a file named like a buffer ({example}.{kind}.json) the way the
editor would: JSON syntax first, then every schema associated with the name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := filepath.Base(args[0])
			if _, _, ok := resource.Parse(name); !ok {
				return fmt.Errorf("%s is not named {example}.{kind}.json", name)
			}
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			p, err := a.playground(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			diags := p.Schemas().Diagnose(name, string(text))
			if len(diags) == 0 {
				fmt.Fprintf(out, "%s: no issues\n", args[0])
				return nil
			}

			failed := 0
			for _, diag := range diags {
				if diag.Severity == schemacatalog.SeverityError {
					failed++
				}
				fmt.Fprintln(out, formatDiagnostic(args[0], diag))
			}
			if failed > 0 {
				return fmt.Errorf("%s: %d %w", args[0], failed, errIssues)
			}
			return nil
		},
	}
}

func newAssociationsCommand(a *app) *cobra.Command {
	var urisOnly bool
	cmd := &cobra.Command{
		Use:   "associations",
		Short: "Print the schema associations an editor boots with, as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.playground(cmd.Context())
			if err != nil {
				return err
			}
			associations := p.Schemas().Associations()

			var payload any = associations
			if urisOnly {
				uris := make(map[string][]string, len(associations))
				for _, assoc := range associations {
					uris[assoc.URI] = assoc.FileMatch
				}
				payload = uris
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}
	cmd.Flags().BoolVar(&urisOnly, "uris-only", false, "print only the URI to file match mapping")
	return cmd
}

func formatDiagnostic(file string, diag schemacatalog.Diagnostic) string {
	location := file
	if diag.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", file, diag.Line, diag.Column)
	}
	msg := fmt.Sprintf("%s: %s: %s", location, diag.Severity, diag.Message)
	if diag.Path != "" {
		msg += " (at " + diag.Path + ")"
	}
	return msg
}

func kindList() string {
	kinds := resource.Kinds()
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.String())
	}
	return strings.Join(names, ", ")
}
