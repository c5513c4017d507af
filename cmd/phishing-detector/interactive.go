package main

import (
	"github.com/mikey/phishing-detector/internal/adapters/filter"
	"github.com/spf13/cobra"
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Start an interactive analysis session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.invoke(func(session *filter.InteractiveFilter) error {
				return session.Run(cmd.Context(), a.in, a.out)
			})
		},
	}
}
