package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/repository"
	"github.com/holydev99/debtSet/pkg/utils"
)

func newDebtsCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Inspect debts",
	}
	cmd.AddCommand(newDebtsListCommand(open))
	return cmd
}

func newDebtsListCommand(open Opener) *cobra.Command {
	var (
		owner  string
		paid   bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the unpaid debts of an owner, or the paid ones with --paid",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repository.DebtFilter{
				Owner:   owner,
				Paid:    &paid,
				OrderBy: repository.OrderByCreatedAt,
			}
			if paid {
				filter.OrderBy = repository.OrderByPaidAt
			}

			return withBackend(cmd, open, func(ctx context.Context, b *Backend) error {
				debts, err := b.Debts.List(ctx, filter)
				if err != nil {
					return fmt.Errorf("failed to list debts: %w", err)
				}
				if debts == nil {
					debts = []*domain.Debt{}
				}
				result := domain.DebtListResponse{Debts: debts, Total: domain.SumAmounts(debts)}

				done, err := render(cmd.OutOrStdout(), format, result)
				if done || err != nil {
					return err
				}
				return printDebts(cmd, result)
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner whose debts to list (required)")
	cmd.Flags().BoolVar(&paid, "paid", false, "List paid debts instead of unpaid ones")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func printDebts(cmd *cobra.Command, result domain.DebtListResponse) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAMOUNT\tDUE\tREMINDER")
	for _, d := range result.Debts {
		due := "-"
		if d.DueAt != nil {
			due = d.DueAt.Format("2006-01-02")
		}
		reminder := "-"
		if d.HasReminder() {
			reminder = *d.ReminderHandle
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Title, utils.FormatAmount(d.Amount), due, reminder)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%s\t\t\n", utils.FormatAmount(result.Total))
	return tw.Flush()
}
