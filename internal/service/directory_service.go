package service

import (
	"context"
	"errors"
	"strings"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/export"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/repository"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/validate"
)

// ValidationError lists the missing values of a record that was not sent.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "invalid record: " + strings.Join(parts, "; ")
}

var ErrMissingID = errors.New("record id is required")

// DirectoryService is CRUD over one directory collection with
// client-side validation and CSV export.
type DirectoryService[T any] struct {
	repo     *repository.Collection[T]
	notifier notify.Notifier
	noun     string
	schema   validate.Schema
	header   []string
	row      func(T) []string
}

var (
	employeeSchema = validate.Schema{"firstName", "lastName", "email"}
	companySchema  = validate.Schema{"name"}
)

func NewEmployeeService(repo *repository.EmployeeRepo, n notify.Notifier) *DirectoryService[models.Employee] {
	return &DirectoryService[models.Employee]{
		repo: repo, notifier: n, noun: "Employee",
		schema: employeeSchema, header: models.EmployeeHeader, row: models.Employee.Row,
	}
}

func NewCompanyService(repo *repository.CompanyRepo, n notify.Notifier) *DirectoryService[models.Company] {
	return &DirectoryService[models.Company]{
		repo: repo, notifier: n, noun: "Company",
		schema: companySchema, header: models.CompanyHeader, row: models.Company.Row,
	}
}

func (s *DirectoryService[T]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *DirectoryService[T]) Get(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, ErrMissingID
	}
	return s.repo.Get(ctx, id)
}

func (s *DirectoryService[T]) check(item T) error {
	if errs := s.schema.Check(item); len(errs) > 0 {
		notify.Error(s.notifier, "Please fill in all required fields.")
		return &ValidationError{Fields: errs}
	}
	return nil
}

func (s *DirectoryService[T]) Create(ctx context.Context, item T) (T, error) {
	if err := s.check(item); err != nil {
		var zero T
		return zero, err
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return created, err
	}
	notify.Success(s.notifier, s.noun+" created")
	return created, nil
}

func (s *DirectoryService[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrMissingID
	}
	if err := s.check(item); err != nil {
		return zero, err
	}
	updated, err := s.repo.Update(ctx, id, item)
	if err != nil {
		return updated, err
	}
	notify.Success(s.notifier, s.noun+" updated")
	return updated, nil
}

func (s *DirectoryService[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	notify.Success(s.notifier, s.noun+" deleted")
	return nil
}

func (s *DirectoryService[T]) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ExportCSV renders the whole collection with a header row.
func (s *DirectoryService[T]) ExportCSV(ctx context.Context) ([]byte, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, s.row(it))
	}
	return export.CSV(export.Table(s.header, rows...))
}
