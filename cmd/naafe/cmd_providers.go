package main

import (
	"github.com/spf13/cobra"

	"github.com/Ahmed01061/Naafe/internal/providers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List featured service providers",
	RunE:  runProviders,
}

func runProviders(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	svc := providers.NewService(a.client, a.log)
	cards, err := svc.Featured(cmd.Context())
	return providers.Render(cmd.OutOrStdout(), cards, err)
}
