package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/payroll"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type payAdjustmentRepository struct {
	db *database.DB
}

func NewPayAdjustmentRepository(db *database.DB) payroll.Repository {
	return &payAdjustmentRepository{db: db}
}

// Append implements payroll.Repository. The ledger is append-only; there is
// deliberately no UPDATE or DELETE against pay_adjustments anywhere.
func (r *payAdjustmentRepository) Append(ctx context.Context, adj *payroll.PayAdjustment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_adjustments (id, employee_id, date, amount, reason, kind, transition_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		adj.ID, adj.EmployeeID, adj.Date, adj.Amount, adj.Reason, adj.Kind, adj.TransitionID,
	).Scan(&adj.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append pay adjustment: %w", err)
	}
	return nil
}

// AppendBatch implements payroll.Repository. Entries from one transition
// land atomically: either the whole batch commits or none of it does.
func (r *payAdjustmentRepository) AppendBatch(ctx context.Context, adjs []*payroll.PayAdjustment) error {
	if len(adjs) == 0 {
		return nil
	}
	if len(adjs) == 1 {
		return r.Append(ctx, adjs[0])
	}

	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		for _, adj := range adjs {
			if err := r.Append(txCtx, adj); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByEmployee implements payroll.Repository.
func (r *payAdjustmentRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]payroll.PayAdjustment, error) {
	return r.ListByDateRange(ctx, []string{employeeID}, from, to)
}

// ListByDateRange implements payroll.Repository.
func (r *payAdjustmentRepository) ListByDateRange(ctx context.Context, employeeIDs []string, from, to time.Time) ([]payroll.PayAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, amount, reason, kind, transition_id, created_at
		FROM pay_adjustments
		WHERE date >= $1 AND date <= $2
	`
	args := []interface{}{from, to}
	if len(employeeIDs) > 0 {
		query += " AND employee_id = ANY($3)"
		args = append(args, employeeIDs)
	}
	query += " ORDER BY date ASC, created_at ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay adjustments: %w", err)
	}
	defer rows.Close()

	var adjs []payroll.PayAdjustment
	for rows.Next() {
		var adj payroll.PayAdjustment
		if err := rows.Scan(
			&adj.ID, &adj.EmployeeID, &adj.Date, &adj.Amount, &adj.Reason, &adj.Kind,
			&adj.TransitionID, &adj.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay adjustment: %w", err)
		}
		adjs = append(adjs, adj)
	}
	return adjs, rows.Err()
}
