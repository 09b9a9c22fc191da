package postgresql

import (
	"context"
	"fmt"

	"github.com/tempohq/attendance-backend-go/internal/domain/attendance"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
)

type transitionLog struct {
	db *database.DB
}

func NewTransitionLog(db *database.DB) attendance.TransitionLog {
	return &transitionLog{db: db}
}

// Claim implements attendance.TransitionLog. The unique transition_id
// constraint makes the claim exactly-once across concurrent processes:
// ON CONFLICT DO NOTHING inserts zero rows for every caller but the first.
func (l *transitionLog) Claim(ctx context.Context, transitionID string) (bool, error) {
	q := GetQuerier(ctx, l.db)

	tag, err := q.Exec(ctx, `
		INSERT INTO dispatched_transitions (transition_id)
		VALUES ($1)
		ON CONFLICT (transition_id) DO NOTHING
	`, transitionID)
	if err != nil {
		return false, fmt.Errorf("failed to claim transition: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
