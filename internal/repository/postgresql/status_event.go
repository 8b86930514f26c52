package postgresql

import (
	"context"
	"fmt"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/pkg/database"
)

type statusEventRepositoryImpl struct {
	db *database.DB
}

func NewStatusEventRepository(db *database.DB) shift.StatusEventRepository {
	return &statusEventRepositoryImpl{db: db}
}

// Create implements shift.StatusEventRepository.
func (r *statusEventRepositoryImpl) Create(ctx context.Context, e shift.StatusEvent) (shift.StatusEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_status_events (id, shift_id, staff_id, status, booked_at, reviewed_by, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	created := e
	err := q.QueryRow(ctx, query,
		newID(),
		e.ShiftID,
		e.StaffID,
		e.Status,
		e.BookedAt,
		e.ReviewedBy,
		e.ReviewedAt,
	).Scan(&created.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return shift.StatusEvent{}, shift.ErrAlreadyBooked
		}
		return shift.StatusEvent{}, fmt.Errorf("failed to create status event: %w", err)
	}
	return created, nil
}

// UpdateReview implements shift.StatusEventRepository. Only pending events can be reviewed.
func (r *statusEventRepositoryImpl) UpdateReview(ctx context.Context, e shift.StatusEvent) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_status_events
		SET status = $1, rejection_reason = $2, rejected_at = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $6 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, e.Status, e.RejectionReason, e.RejectedAt, e.ReviewedBy, e.ReviewedAt, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update status event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrBookingAlreadyReviewed
	}
	return nil
}

// Delete implements shift.StatusEventRepository.
func (r *statusEventRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_status_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete status event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrBookingNotFound
	}
	return nil
}
