package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstudio/pkg/playground"
	"github.com/goliatone/go-formstudio/pkg/preview"
	"github.com/goliatone/go-formstudio/pkg/renderers/tui"
	"github.com/goliatone/go-formstudio/pkg/resource"
	"github.com/goliatone/go-formstudio/pkg/synchronizer"
)

// Session menu entries, in display order.
const (
	menuEdit     = "Edit a buffer"
	menuApply    = "Apply a buffer"
	menuReload   = "Reload a buffer"
	menuFill     = "Fill in the form"
	menuPreview  = "Preview the form"
	menuAction   = "Run an example action"
	menuSwitch   = "Switch example"
	menuFormOnly = "Toggle form-only mode"
	menuQuit     = "Quit"
)

var sessionMenu = []string{
	menuEdit,
	menuApply,
	menuReload,
	menuFill,
	menuPreview,
	menuAction,
	menuSwitch,
	menuFormOnly,
	menuQuit,
}

var errQuit = errors.New("quit")

func newSessionCommand(a *app) *cobra.Command {
	var formOnly bool
	cmd := &cobra.Command{
		Use:   "session [example]",
		Short: "Start an interactive playground session",
		Long: `Start an interactive session on an example (the first catalog example by
default). Buffers are edited in $EDITOR, applied into the form state, and the
form is filled in through terminal prompts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []playground.Option
			if cmd.Flags().Changed("form-only") {
				opts = append(opts, playground.WithFormOnly(formOnly))
			}
			p, err := a.playground(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			if err := p.Start(name); err != nil {
				return err
			}
			defer p.Close()

			s := &session{p: p, driver: a.prompts()}
			return s.run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&formOnly, "form-only", false, "start without text buffers")
	return cmd
}

type session struct {
	p      *playground.Playground
	driver tui.PromptDriver
}

func (s *session) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.info(ctx, s.status())

		idx, err := s.driver.Select(ctx, tui.SelectConfig{
			Message:      "What next?",
			Options:      sessionMenu,
			DefaultIndex: -1,
			PageSize:     len(sessionMenu),
		})
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(sessionMenu) {
			continue
		}

		err = s.step(ctx, sessionMenu[idx])
		s.flushNotifications(ctx)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, tui.ErrAborted):
			s.info(ctx, "Cancelled")
		case err != nil:
			return err
		}
	}
}

func (s *session) step(ctx context.Context, choice string) error {
	switch choice {
	case menuEdit:
		return s.edit(ctx)
	case menuApply:
		kind, ok, err := s.pickKind(ctx, "Apply which buffer?")
		if err != nil || !ok {
			return err
		}
		var parseErr *synchronizer.ParseError
		if err := s.p.Apply(kind); err != nil && !errors.As(err, &parseErr) {
			return err
		}
		return nil
	case menuReload:
		kind, ok, err := s.pickKind(ctx, "Reload which buffer?")
		if err != nil || !ok {
			return err
		}
		return s.p.Reload(kind)
	case menuFill:
		return s.p.RenderForm(ctx)
	case menuPreview:
		renderer, err := s.p.Renderers().Get(preview.Name)
		if err != nil {
			return err
		}
		return renderer.Render(ctx, s.p.Store().Snapshot(), s.p.Validator(), nil)
	case menuAction:
		return s.runAction(ctx)
	case menuSwitch:
		return s.switchExample(ctx)
	case menuFormOnly:
		s.p.SetFormOnly(!s.p.FormOnly())
		if s.p.FormOnly() {
			s.info(ctx, "Form-only mode on")
		} else {
			s.info(ctx, "Form-only mode off")
		}
		return nil
	case menuQuit:
		return errQuit
	}
	return nil
}

func (s *session) edit(ctx context.Context) error {
	kind, ok, err := s.pickKind(ctx, "Edit which buffer?")
	if err != nil || !ok {
		return err
	}
	current, _ := s.p.Buffer(kind)
	text, err := s.driver.TextArea(ctx, tui.TextAreaConfig{
		Message: resource.URI(s.p.Active(), kind),
		Default: current,
		Help:    "Edits stay in the buffer until applied",
	})
	if err != nil {
		return err
	}
	if !s.p.Edit(kind, text) {
		s.info(ctx, "No changes")
		return nil
	}

	diags := s.p.Diagnose(kind)
	if len(diags) == 0 {
		s.info(ctx, "No issues")
		return nil
	}
	uri := resource.URI(s.p.Active(), kind)
	for _, diag := range diags {
		s.info(ctx, formatDiagnostic(uri, diag))
	}
	return nil
}

// pickKind reports ok=false when the example has no buffers to pick from.
func (s *session) pickKind(ctx context.Context, message string) (resource.Kind, bool, error) {
	if s.p.FormOnly() {
		s.info(ctx, "Buffers are hidden in form-only mode")
		return "", false, nil
	}
	kinds := s.p.Kinds()
	if len(kinds) == 0 {
		return "", false, nil
	}
	options := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		options = append(options, kind.Title())
	}
	idx, err := s.driver.Select(ctx, tui.SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: -1,
	})
	if err != nil {
		return "", false, err
	}
	if idx < 0 || idx >= len(kinds) {
		return "", false, nil
	}
	return kinds[idx], true, nil
}

func (s *session) runAction(ctx context.Context) error {
	actions := s.p.Store().Snapshot().Actions
	if len(actions) == 0 {
		s.info(ctx, "This example has no actions")
		return nil
	}
	labels := make([]string, 0, len(actions))
	for _, action := range actions {
		labels = append(labels, action.Label)
	}
	idx, err := s.driver.Select(ctx, tui.SelectConfig{
		Message:      "Run which action?",
		Options:      labels,
		DefaultIndex: -1,
	})
	if err != nil {
		return err
	}
	if err := s.p.RunAction(idx); err != nil {
		return err
	}
	s.info(ctx, fmt.Sprintf("Ran %q", labels[idx]))
	return nil
}

func (s *session) switchExample(ctx context.Context) error {
	names := s.p.Catalog().Names()
	current := -1
	for i, name := range names {
		if name == s.p.Active() {
			current = i
		}
	}
	idx, err := s.driver.Select(ctx, tui.SelectConfig{
		Message:      "Switch to which example?",
		Options:      names,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(names) {
		return nil
	}
	return s.p.Select(names[idx])
}

func (s *session) status() string {
	status := "Example: " + s.p.Active()
	snapshot := s.p.Store().Snapshot()
	if snapshot.Readonly {
		status += " (readonly)"
	}
	if s.p.FormOnly() {
		status += " (form-only)"
	}
	if errs := s.p.Store().Errors(); len(errs) > 0 {
		status += fmt.Sprintf(", %d issue(s)", len(errs))
	}
	return status
}

// flushNotifications prints every pending notification. The session is
// synchronous, so messages are shown between prompts instead of timing out.
func (s *session) flushNotifications(ctx context.Context) {
	notifier := s.p.Notifier()
	for {
		note, ok := notifier.Current()
		if !ok {
			return
		}
		s.info(ctx, fmt.Sprintf("[%s] %s", note.Level, note.Message))
		notifier.Dismiss()
	}
}

func (s *session) info(ctx context.Context, msg string) {
	_ = s.driver.Info(ctx, msg)
}
