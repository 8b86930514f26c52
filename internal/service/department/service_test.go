package department

import (
	"context"
	"strings"
	"testing"

	"github.com/Samamatip/dh-workflow/internal/domain/department"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDepartmentRepo struct {
	departments []department.Department
}

func (r *fakeDepartmentRepo) Create(ctx context.Context, d department.Department) (department.Department, error) {
	d.ID = "dept-" + strings.ToLower(d.Name)
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
	for _, d := range r.departments {
		if strings.EqualFold(d.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDepartmentRepo) List(ctx context.Context) ([]department.Department, error) {
	return r.departments, nil
}

func TestCreateDepartment(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	svc := NewDepartmentService(repo)
	ctx := context.Background()

	created, err := svc.CreateDepartment(ctx, department.CreateDepartmentRequest{Name: "  Pharmacy "})
	require.NoError(t, err)
	assert.Equal(t, "Pharmacy", created.Name)

	_, err = svc.CreateDepartment(ctx, department.CreateDepartmentRequest{Name: "PHARMACY"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	_, err = svc.CreateDepartment(ctx, department.CreateDepartmentRequest{Name: "  "})
	assert.Error(t, err)

	list, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []department.DepartmentResponse{{ID: "dept-pharmacy", Name: "Pharmacy"}}, list)
}
