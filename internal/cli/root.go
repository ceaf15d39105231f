package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/holydev99/debtSet/internal/domain"
	"github.com/holydev99/debtSet/internal/notifier"
	"github.com/holydev99/debtSet/internal/reminder"
	"github.com/holydev99/debtSet/internal/repository"
)

// AdminPlatform is a notification platform whose permissions can be set
// directly
type AdminPlatform interface {
	notifier.Platform
	SetPermission(ctx context.Context, owner string, status domain.PermissionStatus) error
}

// Backend holds the stores the commands work on
type Backend struct {
	DB        *sqlx.DB
	Debts     repository.DebtRepository
	Platform  AdminPlatform
	Reminders *reminder.Scheduler
	Close     func() error
}

// Opener connects a Backend, once per command run
type Opener func(ctx context.Context) (*Backend, error)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// NewRootCommand builds debtctl. open is called lazily by the commands that
// need a backend.
func NewRootCommand(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "debtctl",
		Short: "Administer the debt tracker",
		Long: `debtctl applies the database schema and inspects or repairs debts and
their scheduled reminders.

Connection settings come from the same environment variables and .env
file as the server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMigrateCommand(open))
	rootCmd.AddCommand(newDebtsCommand(open))
	rootCmd.AddCommand(newRemindersCommand(open))
	rootCmd.AddCommand(newPermissionCommand(open))

	return rootCmd
}

// withBackend opens the backend, runs fn and closes it again
func withBackend(cmd *cobra.Command, open Opener, fn func(ctx context.Context, b *Backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := open(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if b.Close != nil {
		defer b.Close()
	}

	return fn(ctx, b)
}

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", formatTable, "Output format: table, json, yaml")
}

// render writes v as json or yaml; it reports false for the table format so
// the caller prints its own table.
func render(w io.Writer, format string, v interface{}) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case formatTable, "":
		return false, nil
	}
	return true, fmt.Errorf("unknown output format %q", format)
}
