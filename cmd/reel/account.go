package main

import (
	"fmt"

	"github.com/fwojciec/reel"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var idToken string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Google ID token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.client.SignIn(ctx, idToken); err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			u, err := a.client.CurrentUser(ctx)
			if err != nil {
				a.logger.Warn().Err(err).Msg("signed in but user lookup failed")
				fmt.Fprintln(a.stdout, "Signed in.")
				return nil
			}
			a.auth.SetUser(u)
			fmt.Fprintf(a.stdout, "Signed in as %s.\n", u.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "Google ID token")
	_ = cmd.MarkFlagRequired("id-token")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.tokens.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("sign out: %w", err)
			}
			a.auth.Logout()
			fmt.Fprintln(a.stdout, "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			a.auth.SetUser(u)
			printUser(a, u)
			return nil
		},
	}
}

func printUser(a *app, u reel.User) {
	fmt.Fprintf(a.stdout, "%s (%s)\n", u.Username, u.UID)
	if u.PhoneNumber != "" {
		fmt.Fprintf(a.stdout, "Phone: %s\n", u.PhoneNumber)
	}
}

func newOnboardCmd(a *app) *cobra.Command {
	var frequency int
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Set how many videos per week you plan to publish",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Onboard(cmd.Context(), frequency); err != nil {
				return fmt.Errorf("onboard: %w", err)
			}
			fmt.Fprintf(a.stdout, "Onboarded at %d videos per week.\n", frequency)
			return nil
		},
	}
	cmd.Flags().IntVar(&frequency, "frequency", 3, fmt.Sprintf("Videos per week (%d-%d)", reel.MinFrequency, reel.MaxFrequency))
	return cmd
}
