package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/reel"
	bt "github.com/fwojciec/reel/bubbletea"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var projectID, category string
	var plain bool
	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Stream a new script for a project",
		Long: `Stream a new script for a project. On a terminal this opens an
interactive view: Enter generates, Esc cancels, Ctrl+R retries the last
prompt and Ctrl+C quits. Otherwise, or with --plain, the script is written
to stdout as it arrives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := a.useProject(projectID, category)
			prompt := strings.Join(args, " ")

			t, err := resolveTransport(ctx, a.cfg, a.client, a.logger)
			if err != nil {
				return err
			}
			archive, err := a.openArchive()
			if err != nil {
				return err
			}

			if a.isTerminal() && !plain {
				return generateTUI(ctx, a, t, archive, p, prompt)
			}
			if strings.TrimSpace(prompt) == "" {
				return fmt.Errorf("a prompt is required when not running interactively: %w", reel.ErrValidation)
			}
			req := reel.GenerateRequest{ProjectID: p.ID, ProjectCategory: p.Category, Prompt: prompt}
			return generatePlain(ctx, a, t, archive, req)
		},
	}
	f := cmd.Flags()
	f.StringVar(&projectID, "project", "", "Project ID")
	f.StringVar(&category, "category", "", "Project category: "+categoryNames())
	f.BoolVar(&plain, "plain", false, "Write the script to stdout instead of opening the interactive view")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func generateTUI(ctx context.Context, a *app, t reel.Transport, archive reel.ScriptArchive, p reel.Project, prompt string) error {
	n := bt.NewNotifier()
	ctrl := reel.NewController(t, reel.WithLogger(a.logger), reel.WithObserver(n.Observe))
	m := bt.New(ctrl, n, p, reel.DefaultTheme(), bt.WithArchive(archive))
	m.Input.SetValue(prompt)

	final, err := bt.Run(ctx, m)
	ctrl.Cancel()
	// A session interrupted by shutdown was never rendered as terminal.
	if rec, ok := final.Unarchived(); ok {
		if serr := archive.Save(context.WithoutCancel(ctx), rec); serr != nil {
			a.logger.Warn().Err(serr).Str("session", rec.SessionID).Msg("archive script")
		}
	}
	if err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// generatePlain streams one session to stdout and archives the result.
// Cancelling ctx cancels the session; its partial content is kept.
func generatePlain(ctx context.Context, a *app, t reel.Transport, archive reel.ScriptArchive, req reel.GenerateRequest) error {
	done := make(chan reel.Snapshot, 1)
	written := 0
	observer := func(s reel.Snapshot) {
		if len(s.Content) > written {
			fmt.Fprint(a.stdout, s.Content[written:])
			written = len(s.Content)
		}
		if s.State.Terminal() {
			select {
			case done <- s:
			default:
			}
		}
	}
	ctrl := reel.NewController(t, reel.WithLogger(a.logger), reel.WithObserver(observer))

	// Start only returns without a session when req is invalid. Open
	// failures leave a Failed session whose snapshot reaches done.
	if s, err := ctrl.Start(context.WithoutCancel(ctx), req); s == nil {
		return err
	}

	var snap reel.Snapshot
	select {
	case snap = <-done:
	case <-ctx.Done():
		ctrl.Cancel()
		snap = <-done
	}
	if written > 0 && !strings.HasSuffix(snap.Content, "\n") {
		fmt.Fprintln(a.stdout)
	}

	rec := reel.NewScriptRecord(req, snap)
	if err := archive.Save(context.WithoutCancel(ctx), rec); err != nil {
		a.logger.Error().Err(err).Str("session", snap.SessionID).Msg("archive failed")
		fmt.Fprintf(a.stderr, "warning: could not archive script: %v\n", err)
	}

	summary := fmt.Sprintf("%s · %d bytes · %d ignored", snap.State, snap.Offset, snap.Ignored)
	if rec.ID != "" {
		summary += " · archived " + rec.ID
	}
	fmt.Fprintln(a.stderr, summary)

	if snap.State == reel.StreamStateFailed {
		// The transport error is already in the log; the summary stays generic.
		a.logger.Error().Err(snap.Err).Str("session", snap.SessionID).Msg("generation failed")
		return errors.New("generation failed")
	}
	return nil
}
