package main

import (
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer b.db.Close()

			return b.db.Migrate(ctx)
		},
	}
}
