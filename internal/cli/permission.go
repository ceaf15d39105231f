package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holydev99/debtSet/internal/domain"
)

func newPermissionCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permission",
		Short: "Manage notification permissions",
	}
	cmd.AddCommand(newPermissionSetCommand(open))
	return cmd
}

func newPermissionSetCommand(open Opener) *cobra.Command {
	var owner, status string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Grant or deny reminders for an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := domain.PermissionStatus(status)
			switch s {
			case domain.PermissionGranted, domain.PermissionDenied, domain.PermissionUndetermined:
			default:
				return fmt.Errorf("invalid status %q: want granted, denied or undetermined", status)
			}

			return withBackend(cmd, open, func(ctx context.Context, b *Backend) error {
				if err := b.Platform.SetPermission(ctx, owner, s); err != nil {
					return fmt.Errorf("failed to set permission: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "permission for %s set to %s\n", owner, s)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner to update (required)")
	cmd.Flags().StringVar(&status, "status", "", "granted, denied or undetermined (required)")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}
