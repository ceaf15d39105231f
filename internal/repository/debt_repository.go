package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/holydev99/debtSet/internal/domain"
	customError "github.com/holydev99/debtSet/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const debtsTable = "debts"

var debtColumns = []string{
	"id",
	"user_id",
	"title",
	"amount",
	"description",
	"payback_date",
	"is_paid",
	"paid_at",
	"notification_id",
	"created_at",
}

type debtRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDebtRepository(db *sqlx.DB) DebtRepository {
	return &debtRepository{db: db, now: time.Now}
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *debtRepository) List(ctx context.Context, filter DebtFilter) ([]*domain.Debt, error) {
	builder := psql().
		Select(debtColumns...).
		From(debtsTable).
		Where(sq.Eq{"user_id": filter.Owner})

	if filter.Paid != nil {
		builder = builder.Where(sq.Eq{"is_paid": *filter.Paid})
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = OrderByCreatedAt
	}
	direction := " DESC"
	if filter.Ascending {
		direction = " ASC"
	}
	builder = builder.OrderBy(string(orderBy) + direction)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	debts := make([]*domain.Debt, 0)
	if err := r.db.SelectContext(ctx, &debts, query, args...); err != nil {
		return nil, err
	}

	return debts, nil
}

// validID reports whether id can name a row; debts.id is a UUID column
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *debtRepository) GetByID(ctx context.Context, owner, id string) (*domain.Debt, error) {
	if !validID(id) {
		return nil, customError.WrapDebtNotFound(id)
	}

	query, args, err := psql().
		Select(debtColumns...).
		From(debtsTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": owner}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var debt domain.Debt
	if err := r.db.GetContext(ctx, &debt, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDebtNotFound(id)
		}
		return nil, err
	}

	return &debt, nil
}

func (r *debtRepository) Insert(ctx context.Context, debt *domain.Debt) error {
	id := uuid.NewString()
	createdAt := r.now().UTC()

	query, args, err := psql().
		Insert(debtsTable).
		Columns(debtColumns...).
		Values(
			id,
			debt.Owner,
			debt.Title,
			debt.Amount,
			debt.Description,
			debt.DueAt,
			false,
			nil,
			nil,
			createdAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	debt.ID = id
	debt.CreatedAt = createdAt
	debt.Paid = false
	debt.PaidAt = nil
	debt.ReminderHandle = nil

	return nil
}

func (r *debtRepository) Update(ctx context.Context, owner, id string, update DebtUpdate) error {
	if !validID(id) {
		return customError.WrapDebtNotFound(id)
	}

	builder := psql().Update(debtsTable)

	changed := false
	if update.Paid != nil {
		builder = builder.Set("is_paid", *update.Paid)
		changed = true
	}
	if update.SetPaidAt {
		builder = builder.Set("paid_at", update.PaidAt)
		changed = true
	}
	if update.SetReminderHandle {
		builder = builder.Set("notification_id", update.ReminderHandle)
		changed = true
	}
	if !changed {
		return nil
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": owner}).
		ToSql()
	if err != nil {
		return err
	}

	return r.execOne(ctx, id, query, args...)
}

func (r *debtRepository) SetReminderHandle(ctx context.Context, owner, id string, handle *string) error {
	return r.Update(ctx, owner, id, DebtUpdate{SetReminderHandle: true, ReminderHandle: handle})
}

func (r *debtRepository) Delete(ctx context.Context, owner, id string) error {
	if !validID(id) {
		return customError.WrapDebtNotFound(id)
	}

	query, args, err := psql().
		Delete(debtsTable).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": owner}).
		ToSql()
	if err != nil {
		return err
	}

	return r.execOne(ctx, id, query, args...)
}

// execOne runs a statement that must touch exactly the row with the given id
func (r *debtRepository) execOne(ctx context.Context, id, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.WrapDebtNotFound(id)
	}

	return nil
}
