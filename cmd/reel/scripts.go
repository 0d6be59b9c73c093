package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/reel"
	"github.com/fwojciec/reel/goldmark"
	reeljson "github.com/fwojciec/reel/json"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

func renderMarkdown(a *app, source string) string {
	return goldmark.Render(source, a.termWidth(), reel.DefaultTheme())
}

func newScriptsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scripts",
		Short: "Browse the local archive of generated scripts",
	}
	cmd.AddCommand(
		newScriptsListCmd(a),
		newScriptsShowCmd(a),
		newScriptsDeleteCmd(a),
		newScriptsExportCmd(a),
		newScriptsImportCmd(a),
	)
	return cmd
}

func newScriptsListCmd(a *app) *cobra.Command {
	var f reel.ArchiveFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived scripts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			records, err := archive.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(a.stdout, "No archived scripts.")
				return nil
			}
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATE\tCREATED\tTITLE")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.State, r.CreatedAt.Local().Format(timeLayout), r.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&f.ProjectID, "project", "", "Only scripts of this project")
	cmd.Flags().StringVar(&f.Match, "match", "", "Glob matched against titles, e.g. '*Snail*'")
	return cmd
}

func newScriptsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Render an archived script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			r, err := archive.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Prompt:  %s\n", r.Prompt)
			fmt.Fprintf(a.stdout, "Project: %s\n", r.ProjectID)
			fmt.Fprintf(a.stdout, "State:   %s\n", r.State)
			fmt.Fprintf(a.stdout, "Created: %s\n\n", r.CreatedAt.Local().Format(timeLayout))
			fmt.Fprintln(a.stdout, renderMarkdown(a, r.Content))
			return nil
		},
	}
}

func newScriptsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a script from the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			if err := archive.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Deleted %s.\n", args[0])
			return nil
		},
	}
}

func newScriptsExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Write an archived script to a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			r, err := archive.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := reeljson.Save(args[1], r); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(a.stdout, "Exported %s to %s.\n", r.ID, args[1])
			return nil
		},
	}
}

func newScriptsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add a script exported with 'scripts export' to the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := reeljson.Load(args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			archive, err := a.openArchive()
			if err != nil {
				return err
			}
			if err := archive.Save(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Imported %s.\n", r.ID)
			return nil
		},
	}
}
