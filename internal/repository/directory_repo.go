package repository

import (
	"context"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/apiclient"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

const (
	EmployeesPath = "/employees"
	CompaniesPath = "/companies"
)

// Collection is plain CRUD over one backend resource.
type Collection[T any] struct {
	api  *apiclient.Client
	path string
}

type (
	EmployeeRepo = Collection[models.Employee]
	CompanyRepo  = Collection[models.Company]
)

func NewEmployeeRepo(api *apiclient.Client) *EmployeeRepo {
	return &EmployeeRepo{api: api, path: EmployeesPath}
}

func NewCompanyRepo(api *apiclient.Client) *CompanyRepo {
	return &CompanyRepo{api: api, path: CompaniesPath}
}

func (r *Collection[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.api.Get(ctx, r.path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.api.Get(ctx, itemPath(r.path, id), &item)
	return item, err
}

// Create posts item and returns the stored record with its id.
func (r *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var created T
	if _, err := r.api.Post(ctx, r.path, item, &created); err != nil {
		return created, err
	}
	return created, nil
}

func (r *Collection[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var updated T
	if _, err := r.api.Put(ctx, itemPath(r.path, id), item, &updated); err != nil {
		return updated, err
	}
	return updated, nil
}

func (r *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := r.api.Delete(ctx, itemPath(r.path, id))
	return err
}

func (r *Collection[T]) Count(ctx context.Context) (int, error) {
	items, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
