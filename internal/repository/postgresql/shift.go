package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `
	s.id, s.department_id, s.date, s.start_time, s.end_time, s.quantity, s.published,
	s.created_by, s.created_at, s.updated_at, d.name
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID,
		&s.DepartmentID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Quantity,
		&s.Published,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DepartmentName,
	)
	return s, err
}

const insertShiftQuery = `
	INSERT INTO shifts (id, department_id, date, start_time, end_time, quantity, published, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	created := s
	err := q.QueryRow(ctx, insertShiftQuery,
		newID(),
		s.DepartmentID,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.Quantity,
		s.Published,
		s.CreatedBy,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	created.StatusEvents = nil
	return created, nil
}

// CreateBatch implements shift.ShiftRepository. Callers wrap it in a transaction for all-or-nothing inserts.
func (r *shiftRepositoryImpl) CreateBatch(ctx context.Context, shifts []shift.Shift) ([]string, error) {
	if len(shifts) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for _, s := range shifts {
		batch.Queue(insertShiftQuery,
			newID(),
			s.DepartmentID,
			s.Date,
			s.StartTime,
			s.EndTime,
			s.Quantity,
			s.Published,
			s.CreatedBy,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	ids := make([]string, 0, len(shifts))
	for i := range shifts {
		var s shift.Shift
		if err := results.QueryRow().Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert shift %d of %d: %w", i+1, len(shifts), err)
		}
		ids = append(ids, s.ID)
	}

	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to close batch: %w", err)
	}
	return ids, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (shift.Shift, error) {
	return r.getByID(ctx, id, true)
}

func (r *shiftRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN departments d ON d.id = s.department_id
		WHERE s.id = $1
	`
	if lock {
		query += ` FOR UPDATE OF s`
	}

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	events, err := r.loadEvents(ctx, q, []string{s.ID})
	if err != nil {
		return shift.Shift{}, err
	}
	s.StatusEvents = events[s.ID]
	return s, nil
}

// List implements shift.ShiftRepository. Status events are loaded for every returned shift.
func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.ListFilter) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	from, to := filter.Month.Bounds()
	conditions := []string{"s.date >= $1", "s.date < $2"}
	args := []interface{}{from, to}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("s.department_id = $%d", len(args)))
	}
	if filter.ExcludeDepartmentID != nil {
		args = append(args, *filter.ExcludeDepartmentID)
		conditions = append(conditions, fmt.Sprintf("s.department_id <> $%d", len(args)))
	}
	if filter.Published != nil {
		args = append(args, *filter.Published)
		conditions = append(conditions, fmt.Sprintf("s.published = $%d", len(args)))
	}
	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM shift_status_events e WHERE e.shift_id = s.id AND e.staff_id = $%d)", len(args)))
	}

	query := `SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN departments d ON d.id = s.department_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY s.date, s.start_time
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	var ids []string
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	if len(ids) == 0 {
		return shifts, nil
	}

	events, err := r.loadEvents(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		shifts[i].StatusEvents = events[shifts[i].ID]
	}
	return shifts, nil
}

func (r *shiftRepositoryImpl) loadEvents(ctx context.Context, q database.Querier, shiftIDs []string) (map[string][]shift.StatusEvent, error) {
	query := `
		SELECT e.id, e.shift_id, e.staff_id, e.status, e.booked_at, e.rejection_reason, e.rejected_at,
		       e.reviewed_by, e.reviewed_at, u.full_name
		FROM shift_status_events e
		LEFT JOIN users u ON u.id = e.staff_id
		WHERE e.shift_id = ANY($1::uuid[])
		ORDER BY e.booked_at, e.id
	`

	rows, err := q.Query(ctx, query, shiftIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load status events: %w", err)
	}
	defer rows.Close()

	events := make(map[string][]shift.StatusEvent, len(shiftIDs))
	for rows.Next() {
		var e shift.StatusEvent
		if err := rows.Scan(
			&e.ID,
			&e.ShiftID,
			&e.StaffID,
			&e.Status,
			&e.BookedAt,
			&e.RejectionReason,
			&e.RejectedAt,
			&e.ReviewedBy,
			&e.ReviewedAt,
			&e.StaffName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan status event: %w", err)
		}
		events[e.ShiftID] = append(events[e.ShiftID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status events: %w", err)
	}
	return events, nil
}

// SetPublished implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) SetPublished(ctx context.Context, id string, published bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shifts SET published = $1, updated_at = NOW() WHERE id = $2`, published, id)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}
