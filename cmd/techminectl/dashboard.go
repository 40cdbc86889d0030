package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard figures",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if !a.session.Credential.Valid(timeNow()) {
				return errors.New("not signed in or session expired, run login")
			}
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "home",
			Short: "Homepage counters and the latest activity",
			RunE: func(cmd *cobra.Command, args []string) error {
				hp, err := a.client().Homepage(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), hp)
			},
		},
		&cobra.Command{
			Use:   "recap",
			Short: "Overall totals",
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.client().Recap(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), r)
			},
		},
	)
	return cmd
}
