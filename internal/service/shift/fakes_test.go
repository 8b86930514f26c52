package shift

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/department"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type store struct {
	mu      sync.Mutex
	seq     int
	shifts  map[string]shift.Shift
	order   []string
	listErr error
}

func newStore() *store {
	return &store{shifts: make(map[string]shift.Shift)}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *store) put(sh shift.Shift) shift.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.ID == "" {
		sh.ID = s.nextID("shift")
	}
	if _, ok := s.shifts[sh.ID]; !ok {
		s.order = append(s.order, sh.ID)
	}
	s.shifts[sh.ID] = sh
	return sh
}

type fakeShiftRepo struct {
	*store
}

func (r fakeShiftRepo) Create(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	return r.put(sh), nil
}

func (r fakeShiftRepo) CreateBatch(ctx context.Context, shifts []shift.Shift) ([]string, error) {
	ids := make([]string, 0, len(shifts))
	for _, sh := range shifts {
		ids = append(ids, r.put(sh).ID)
	}
	return ids, nil
}

func (r fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sh, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	sh.StatusEvents = append([]shift.StatusEvent(nil), sh.StatusEvents...)
	return sh, nil
}

func (r fakeShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (shift.Shift, error) {
	return r.GetByID(ctx, id)
}

func (r fakeShiftRepo) List(ctx context.Context, filter shift.ListFilter) ([]shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}

	var out []shift.Shift
	for _, id := range r.order {
		sh := r.shifts[id]
		if !filter.Month.Contains(sh.Date) {
			continue
		}
		if filter.DepartmentID != nil && sh.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.ExcludeDepartmentID != nil && sh.DepartmentID == *filter.ExcludeDepartmentID {
			continue
		}
		if filter.Published != nil && sh.Published != *filter.Published {
			continue
		}
		if filter.StaffID != nil && !hasEventFor(sh, *filter.StaffID) {
			continue
		}
		sh.StatusEvents = append([]shift.StatusEvent(nil), sh.StatusEvents...)
		out = append(out, sh)
	}
	return out, nil
}

func (r fakeShiftRepo) SetPublished(ctx context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sh, ok := r.shifts[id]
	if !ok {
		return shift.ErrShiftNotFound
	}
	sh.Published = published
	r.shifts[id] = sh
	return nil
}

func hasEventFor(sh shift.Shift, staffID string) bool {
	for _, e := range sh.StatusEvents {
		if e.StaffID == staffID {
			return true
		}
	}
	return false
}

type fakeEventRepo struct {
	*store
}

func (r fakeEventRepo) Create(ctx context.Context, e shift.StatusEvent) (shift.StatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sh, ok := r.shifts[e.ShiftID]
	if !ok {
		return shift.StatusEvent{}, shift.ErrShiftNotFound
	}
	e.ID = r.nextID("event")
	sh.StatusEvents = append(sh.StatusEvents, e)
	r.shifts[sh.ID] = sh
	return e, nil
}

func (r fakeEventRepo) UpdateReview(ctx context.Context, e shift.StatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sh := r.shifts[e.ShiftID]
	for i := range sh.StatusEvents {
		if sh.StatusEvents[i].ID == e.ID {
			if sh.StatusEvents[i].Status != shift.BookingStatusPending {
				return shift.ErrBookingAlreadyReviewed
			}
			sh.StatusEvents[i] = e
			r.shifts[sh.ID] = sh
			return nil
		}
	}
	return shift.ErrBookingNotFound
}

func (r fakeEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for shiftID, sh := range r.shifts {
		for i := range sh.StatusEvents {
			if sh.StatusEvents[i].ID == id {
				sh.StatusEvents = append(sh.StatusEvents[:i], sh.StatusEvents[i+1:]...)
				r.shifts[shiftID] = sh
				return nil
			}
		}
	}
	return shift.ErrBookingNotFound
}

type fakeDepartmentRepo struct {
	departments []department.Department
}

func (r *fakeDepartmentRepo) Create(ctx context.Context, d department.Department) (department.Department, error) {
	r.departments = append(r.departments, d)
	return d, nil
}

func (r *fakeDepartmentRepo) GetByID(ctx context.Context, id string) (department.Department, error) {
	for _, d := range r.departments {
		if d.ID == id {
			return d, nil
		}
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (r *fakeDepartmentRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (r *fakeDepartmentRepo) List(ctx context.Context) ([]department.Department, error) {
	return r.departments, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	created  []shift.StatusEvent
	reviewed []shift.StatusEvent
}

func (n *fakeNotifier) BookingCreated(ctx context.Context, s shift.Shift, e shift.StatusEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, e)
}

func (n *fakeNotifier) BookingReviewed(ctx context.Context, s shift.Shift, e shift.StatusEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviewed = append(n.reviewed, e)
}

func (n *fakeNotifier) ShiftRequestReviewed(ctx context.Context, r shiftrequest.ShiftRequest) {}

func (n *fakeNotifier) Stop() {}

var (
	testNow = time.Date(2030, 5, 15, 10, 0, 0, 0, time.UTC)
	mayDate = time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)
	may     = shift.Month{Year: 2030, Month: time.May}
)

type fixture struct {
	svc      *ShiftServiceImpl
	store    *store
	tx       *fakeTransactor
	notifier *fakeNotifier
}

func newFixture() fixture {
	st := newStore()
	tx := &fakeTransactor{}
	notifier := &fakeNotifier{}
	depts := &fakeDepartmentRepo{departments: []department.Department{
		{ID: "dept-a", Name: "Ward A"},
		{ID: "dept-b", Name: "Ward B"},
		{ID: "dept-c", Name: "Ward C"},
	}}

	svc := NewShiftService(tx, fakeShiftRepo{st}, fakeEventRepo{st}, depts, notifier).(*ShiftServiceImpl)
	svc.now = func() time.Time { return testNow }
	return fixture{svc: svc, store: st, tx: tx, notifier: notifier}
}
