package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/holydev99/debtSet/internal/domain"
	customError "github.com/holydev99/debtSet/pkg/errors"
)

func newRemindersCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspect and cancel scheduled reminders",
	}
	cmd.AddCommand(newRemindersListCommand(open))
	cmd.AddCommand(newRemindersCancelCommand(open))
	return cmd
}

func newRemindersListCommand(open Opener) *cobra.Command {
	var owner, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the pending reminders of an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *Backend) error {
				scheduled, err := b.Platform.ListScheduled(ctx, owner)
				if err != nil {
					return fmt.Errorf("failed to list reminders: %w", err)
				}
				if scheduled == nil {
					scheduled = []domain.ScheduledNotification{}
				}

				done, err := render(cmd.OutOrStdout(), format, scheduled)
				if done || err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "HANDLE\tDEBT\tFIRES\tBODY")
				for _, n := range scheduled {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.Handle, n.CorrelationID, n.TriggerAt.Format(time.RFC3339), n.Body)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner whose reminders to list (required)")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func newRemindersCancelCommand(open Opener) *cobra.Command {
	var owner, debtID string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel every reminder of a debt and clear its recorded handle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *Backend) error {
				if err := b.Reminders.Cancel(ctx, owner, nil, debtID); err != nil {
					return err
				}

				debt, err := b.Debts.GetByID(ctx, owner, debtID)
				switch {
				case customError.IsNotFound(err):
					fmt.Fprintf(cmd.OutOrStdout(), "reminders for %s cancelled (debt no longer exists)\n", debtID)
					return nil
				case err != nil:
					return fmt.Errorf("failed to load debt: %w", err)
				}

				if debt.ReminderHandle != nil {
					if err := b.Debts.SetReminderHandle(ctx, owner, debtID, nil); err != nil {
						return fmt.Errorf("failed to clear reminder handle: %w", err)
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "reminders for %s cancelled\n", debtID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner of the debt (required)")
	cmd.Flags().StringVar(&debtID, "debt", "", "Debt id (required)")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("debt")

	return cmd
}
