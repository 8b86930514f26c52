package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]Department, error)
}
