package main

import (
	"cmp"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/reel"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newTrendsCmd(a *app) *cobra.Command {
	var (
		region     string
		maxResults int
		categoryID string
		planFrom   string
		planDays   int
	)
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show trending videos, optionally as a content plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := reel.TrendsQuery{RegionCode: a.cfg.RegionCode, MaxResults: a.cfg.MaxResults}
			if region != "" {
				q.RegionCode = region
			}
			if maxResults > 0 {
				q.MaxResults = maxResults
			}
			if categoryID != "" {
				q.CategoryID = &categoryID
			}

			var start time.Time
			if planFrom != "" {
				var err error
				if start, err = time.Parse(dateLayout, planFrom); err != nil {
					return fmt.Errorf("--plan-from must be YYYY-MM-DD: %w", reel.ErrValidation)
				}
			}

			a.trends.SetLoading(true)
			t, err := a.client.Trends(cmd.Context(), q)
			a.trends.SetLoading(false)
			if err != nil {
				return fmt.Errorf("trends: %w", err)
			}
			a.trends.SetTrends(t)

			if planFrom != "" {
				return printPlan(a, start, planDays)
			}
			return printTrends(a)
		},
	}
	f := cmd.Flags()
	f.StringVar(&region, "region", "", "Region code (default from config)")
	f.IntVar(&maxResults, "max", 0, "Maximum number of videos (default from config)")
	f.StringVar(&categoryID, "category-id", "", "Video category ID")
	f.StringVar(&planFrom, "plan-from", "", "Plan one trending video per day starting at this date (YYYY-MM-DD)")
	f.IntVar(&planDays, "plan-days", 7, "Number of days to plan")
	return cmd
}

func printTrends(a *app) error {
	videos := a.trends.Trends().Videos
	if len(videos) == 0 {
		fmt.Fprintln(a.stdout, "No trending videos.")
		return nil
	}
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VIEWS\tLIKES\tCATEGORY\tCHANNEL\tTITLE")
	for _, v := range videos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", reel.FormatCount(v.Views), reel.FormatCount(v.Likes), v.Category, v.Channel, v.Title)
	}
	return w.Flush()
}

// printPlan assigns the cached trends to consecutive days, most viewed
// first, and prints the resulting plan.
func printPlan(a *app, start time.Time, days int) error {
	videos := slices.Clone(a.trends.Trends().Videos)
	slices.SortStableFunc(videos, func(x, y reel.Video) int { return cmp.Compare(y.Views, x.Views) })
	for i := 0; i < days && i < len(videos); i++ {
		v := videos[i]
		a.plans.SetPlan(reel.PlanEntry{
			Date:  start.AddDate(0, 0, i).Format(dateLayout),
			Topic: v.Title,
			Video: v,
		})
	}
	plans := a.plans.Plans()
	if len(plans) == 0 {
		fmt.Fprintln(a.stdout, "Nothing to plan.")
		return nil
	}
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tVIEWS\tTOPIC")
	for _, e := range plans {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Date, reel.FormatCount(e.Video.Views), e.Topic)
	}
	return w.Flush()
}
