package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/expensio/backend/internal/common/db"
	"github.com/expensio/backend/internal/expense/domain"
	userdomain "github.com/expensio/backend/internal/user/domain"
)

var ErrExpenseNotFound = errors.New("expense not found")

// Query is a fully resolved list query. The owner predicate is part of
// the struct, not an option: there is no way to run an unscoped query.
// Date bounds are inclusive; nil means unbounded on that side.
// Limit <= 0 means no window.
type Query struct {
	OwnerID userdomain.ID
	From    *time.Time
	To      *time.Time
	SortBy  domain.SortField
	Order   domain.SortOrder
	Limit   int
	Offset  int
}

// Patch applies only non-nil fields. An empty patch is a no-op the
// service never sends.
type Patch struct {
	AmountCents *int64
	Category    *domain.Category
	Date        *time.Time
	Description *string
}

func (p Patch) Empty() bool {
	return p.AmountCents == nil && p.Category == nil && p.Date == nil && p.Description == nil
}

type Repository interface {
	Create(ctx context.Context, expense domain.Expense) error
	Find(ctx context.Context, q Query) ([]domain.Expense, error)
	FindByIDAndOwner(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error)
	Update(ctx context.Context, id domain.ID, ownerID userdomain.ID, patch Patch) error
	Delete(ctx context.Context, id domain.ID, ownerID userdomain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const expenseColumns = `id, owner_id, amount_cents, category, expense_date, description, created_at`

func (r *PgRepository) Create(ctx context.Context, expense domain.Expense) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO expenses (id, owner_id, amount_cents, category, expense_date, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(expense.ID),
		string(expense.OwnerID),
		expense.AmountCents,
		string(expense.Category),
		expense.Date,
		expense.Description,
		expense.CreatedAt,
	)
	return db.HandleExecError(err, "create expense", start)
}

func (r *PgRepository) Find(ctx context.Context, q Query) ([]domain.Expense, error) {
	start := time.Now()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + expenseColumns + ` FROM expenses WHERE owner_id = $1`)
	args := []any{string(q.OwnerID)}

	if q.From != nil {
		args = append(args, *q.From)
		fmt.Fprintf(&sb, ` AND expense_date >= $%d`, len(args))
	}
	if q.To != nil {
		args = append(args, *q.To)
		fmt.Fprintf(&sb, ` AND expense_date <= $%d`, len(args))
	}

	sb.WriteString(` ORDER BY ` + sortColumn(q.SortBy) + ` ` + sortDirection(q.Order) + `, id ASC`)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, db.HandleExecError(err, "find expenses", start)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.AmountCents, &e.Category, &e.Date, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return expenses, db.HandleExecError(nil, "find expenses", start)
}

func (r *PgRepository) FindByIDAndOwner(ctx context.Context, id domain.ID, ownerID userdomain.ID) (domain.Expense, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND owner_id = $2`,
		string(id),
		string(ownerID),
	)

	var e domain.Expense
	err := row.Scan(&e.ID, &e.OwnerID, &e.AmountCents, &e.Category, &e.Date, &e.Description, &e.CreatedAt)
	if err != nil {
		return domain.Expense{}, db.HandleQueryError(err, ErrExpenseNotFound, "find expense by id", start)
	}

	return e, nil
}

func (r *PgRepository) Update(ctx context.Context, id domain.ID, ownerID userdomain.ID, patch Patch) error {
	if patch.Empty() {
		return nil
	}

	start := time.Now()

	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.AmountCents != nil {
		add("amount_cents", *patch.AmountCents)
	}
	if patch.Category != nil {
		add("category", string(*patch.Category))
	}
	if patch.Date != nil {
		add("expense_date", *patch.Date)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}

	args = append(args, string(id))
	idArg := len(args)
	args = append(args, string(ownerID))
	ownerArg := len(args)

	query := fmt.Sprintf(
		`UPDATE expenses SET %s WHERE id = $%d AND owner_id = $%d`,
		strings.Join(sets, ", "),
		idArg,
		ownerArg,
	)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err := db.HandleExecError(err, "update expense", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM expenses WHERE id = $1 AND owner_id = $2`,
		string(id),
		string(ownerID),
	)
	if err := db.HandleExecError(err, "delete expense", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// sortColumn maps the sort field enum to a column identifier. Client
// input never reaches the SQL text directly.
func sortColumn(f domain.SortField) string {
	switch f {
	case domain.SortByAmount:
		return "amount_cents"
	default:
		return "expense_date"
	}
}

func sortDirection(o domain.SortOrder) string {
	if o == domain.SortAsc {
		return "ASC"
	}
	return "DESC"
}
