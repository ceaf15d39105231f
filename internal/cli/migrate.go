package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holydev99/debtSet/internal/repository"
)

func newMigrateCommand(open Opener) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Create the debts table and its indexes if they do not exist yet.
The schema is idempotent, running it twice is harmless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), repository.Schema())
				return err
			}

			return withBackend(cmd, open, func(ctx context.Context, b *Backend) error {
				if err := repository.Migrate(ctx, b.DB); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
	return cmd
}
