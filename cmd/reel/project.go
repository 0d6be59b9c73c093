package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fwojciec/reel"
	"github.com/spf13/cobra"
)

// useProject registers the project named on the command line and makes it
// current. Category may be empty when the caller does not know it.
func (a *app) useProject(id, category string) reel.Project {
	p, ok := a.projects.Get(id)
	if !ok {
		p = reel.Project{ID: id}
	}
	if category != "" {
		p.Category = reel.Category(category)
	}
	a.projects.Set(p)
	a.projects.SetCurrent(p.ID)
	return p
}

func categoryNames() string {
	names := make([]string, len(reel.Categories))
	for i, c := range reel.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectCreateCmd(a))
	return cmd
}

func newProjectCreateCmd(a *app) *cobra.Command {
	var in struct {
		name      string
		category  string
		frequency int
	}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.client.CreateProject(cmd.Context(), reel.ProjectInput{
				Name:      in.name,
				Frequency: in.frequency,
				Category:  reel.Category(in.category),
			})
			if err != nil {
				return fmt.Errorf("create project: %w", err)
			}
			a.projects.Set(p)
			a.projects.SetCurrent(p.ID)
			fmt.Fprintf(a.stdout, "Created project %s: %s (%s, %d per week)\n", p.ID, p.Name, p.Category, p.Frequency)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.name, "name", "", "Project name")
	f.StringVar(&in.category, "category", string(reel.CategoryFiction), "Category: "+categoryNames())
	f.IntVar(&in.frequency, "frequency", 3, fmt.Sprintf("Videos per week (%d-%d)", reel.MinFrequency, reel.MaxFrequency))
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newStoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "Browse stories stored on the backend",
	}
	cmd.AddCommand(newStoriesListCmd(a))
	return cmd
}

func newStoriesListCmd(a *app) *cobra.Command {
	var projectID string
	var full bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stories of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.useProject(projectID, "")
			stories, err := a.client.ListStories(cmd.Context(), p.ID)
			if err != nil {
				return fmt.Errorf("list stories: %w", err)
			}
			if len(stories) == 0 {
				fmt.Fprintln(a.stdout, "No stories yet.")
				return nil
			}
			if full {
				for _, s := range stories {
					fmt.Fprintln(a.stdout, renderMarkdown(a, s.Script.Markdown()))
				}
				return nil
			}
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tHOOK\tDURATION\tTITLE")
			for _, s := range stories {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Script.Hook.Type.Label(), s.Script.Duration(), s.Script.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().BoolVar(&full, "full", false, "Render every script in full")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newStoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Create stories on the backend",
	}
	cmd.AddCommand(newStoryCreateCmd(a))
	return cmd
}

func newStoryCreateCmd(a *app) *cobra.Command {
	var projectID, category string
	cmd := &cobra.Command{
		Use:   "create <prompt>...",
		Short: "Generate and store a story without streaming",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.useProject(projectID, category)
			req := reel.GenerateRequest{
				ProjectID:       p.ID,
				ProjectCategory: p.Category,
				Prompt:          strings.Join(args, " "),
			}
			if err := a.client.CreateStory(cmd.Context(), req); err != nil {
				return fmt.Errorf("create story: %w", err)
			}
			fmt.Fprintf(a.stdout, "Story requested for project %s.\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&category, "category", "", "Project category: "+categoryNames())
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
