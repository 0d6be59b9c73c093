package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "reel",
		Short: "Generate short-video scripts",
		Long: `reel signs in to the reel backend, manages projects and streams
generated short-video scripts into the terminal. Every generation is kept
in a local archive, including cancelled and failed ones.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to config file (default ~/.reel/config.yaml)")
	pf.StringVar(&a.apiURL, "api-url", "", "Backend base URL (overrides config and REEL_API_URL)")
	pf.StringVar(&a.provider, "provider", "", "Generation provider: backend, gemini")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log to stderr at debug level")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newOnboardCmd(a),
		newProjectCmd(a),
		newStoriesCmd(a),
		newStoryCmd(a),
		newTrendsCmd(a),
		newGenerateCmd(a),
		newScriptsCmd(a),
	)
	return root
}
