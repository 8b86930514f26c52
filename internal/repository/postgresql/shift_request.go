package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRequestRepositoryImpl struct {
	db *database.DB
}

func NewShiftRequestRepository(db *database.DB) shiftrequest.ShiftRequestRepository {
	return &shiftRequestRepositoryImpl{db: db}
}

const shiftRequestColumns = `
	r.id, r.requested_by, r.department_id, r.date, r.start_time, r.end_time, r.reason, r.status,
	r.admin_notes, r.reviewed_by, r.reviewed_at, r.shift_id, r.created_at, r.updated_at,
	u.full_name, d.name
`

const shiftRequestJoins = `
	FROM shift_requests r
	LEFT JOIN users u ON u.id = r.requested_by
	LEFT JOIN departments d ON d.id = r.department_id
`

func scanShiftRequest(row pgx.Row) (shiftrequest.ShiftRequest, error) {
	var sr shiftrequest.ShiftRequest
	err := row.Scan(
		&sr.ID,
		&sr.RequestedBy,
		&sr.DepartmentID,
		&sr.Date,
		&sr.StartTime,
		&sr.EndTime,
		&sr.Reason,
		&sr.Status,
		&sr.AdminNotes,
		&sr.ReviewedBy,
		&sr.ReviewedAt,
		&sr.ShiftID,
		&sr.CreatedAt,
		&sr.UpdatedAt,
		&sr.RequesterName,
		&sr.DepartmentName,
	)
	return sr, err
}

// Create implements shiftrequest.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Create(ctx context.Context, sr shiftrequest.ShiftRequest) (shiftrequest.ShiftRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_requests (id, requested_by, department_id, date, start_time, end_time, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	created := sr
	err := q.QueryRow(ctx, query,
		newID(),
		sr.RequestedBy,
		sr.DepartmentID,
		sr.Date,
		sr.StartTime,
		sr.EndTime,
		sr.Reason,
		sr.Status,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return shiftrequest.ShiftRequest{}, fmt.Errorf("failed to create shift request: %w", err)
	}
	return created, nil
}

// GetByID implements shiftrequest.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) GetByID(ctx context.Context, id string) (shiftrequest.ShiftRequest, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements shiftrequest.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (shiftrequest.ShiftRequest, error) {
	return r.getByID(ctx, id, true)
}

func (r *shiftRequestRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (shiftrequest.ShiftRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftRequestColumns + shiftRequestJoins + ` WHERE r.id = $1`
	if lock {
		query += ` FOR UPDATE OF r`
	}

	sr, err := scanShiftRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shiftrequest.ShiftRequest{}, shiftrequest.ErrShiftRequestNotFound
		}
		return shiftrequest.ShiftRequest{}, fmt.Errorf("failed to get shift request: %w", err)
	}
	return sr, nil
}

// List implements shiftrequest.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) List(ctx context.Context, filter shiftrequest.ListFilter) ([]shiftrequest.ShiftRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	if filter.RequestedBy != nil {
		args = append(args, *filter.RequestedBy)
		conditions = append(conditions, fmt.Sprintf("r.requested_by = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("r.date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("r.date < $%d", len(args)))
	}

	query := `SELECT ` + shiftRequestColumns + shiftRequestJoins
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift requests: %w", err)
	}
	defer rows.Close()

	var requests []shiftrequest.ShiftRequest
	for rows.Next() {
		sr, err := scanShiftRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift request: %w", err)
		}
		requests = append(requests, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift requests: %w", err)
	}
	return requests, nil
}

// UpdateReview implements shiftrequest.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) UpdateReview(ctx context.Context, sr shiftrequest.ShiftRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_requests
		SET status = $1, admin_notes = $2, reviewed_by = $3, reviewed_at = $4, shift_id = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, sr.Status, sr.AdminNotes, sr.ReviewedBy, sr.ReviewedAt, sr.ShiftID, sr.ID)
	if err != nil {
		return fmt.Errorf("failed to update shift request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shiftrequest.ErrShiftRequestAlreadyProcessed
	}
	return nil
}

// Delete implements shiftrequest.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shiftrequest.ErrShiftRequestNotFound
	}
	return nil
}

// CountPending implements shiftrequest.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) CountPending(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_requests WHERE status = 'pending'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending shift requests: %w", err)
	}
	return count, nil
}
