package main

import (
	"os"

	"github.com/spf13/cobra"

	askcmder "sgc-backend/cmd/sgcctl/ask"
	migratecmder "sgc-backend/cmd/sgcctl/migrate"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sgcctl",
		Short:         "Operator tools for the SGC site backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(migratecmder.NewMigrateCmd())

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
