package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/section"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/validate"
)

// SectionStatus is a section's editor state as shown on the dashboard.
type SectionStatus struct {
	Name  string        `json:"name"`
	Title string        `json:"title"`
	State section.State `json:"state"`
	// Complete is true when every value in the local copy is filled in.
	Complete bool `json:"complete"`
}

type Overview struct {
	FormCount     int             `json:"formCount"`
	FieldCount    int             `json:"fieldCount"`
	UnsavedForms  int             `json:"unsavedForms"`
	EmployeeCount int             `json:"employeeCount"`
	CompanyCount  int             `json:"companyCount"`
	Sections      []SectionStatus `json:"sections"`
}

// Overview fetches the dashboard counters concurrently. The first failing
// fetch cancels the rest.
func (w *Workspace) Overview(ctx context.Context) (Overview, error) {
	var ov Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		forms, err := w.Forms.List(ctx)
		if err != nil {
			return err
		}
		ov.FormCount = len(forms)
		for _, f := range forms {
			ov.FieldCount += f.Form.FieldCount()
			if f.CanSave {
				ov.UnsavedForms++
			}
		}
		return nil
	})
	g.Go(func() (err error) {
		ov.EmployeeCount, err = w.Employees.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		ov.CompanyCount, err = w.Companies.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	for _, h := range w.Sections.All() {
		ov.Sections = append(ov.Sections, SectionStatus{
			Name:     h.Name(),
			Title:    h.Title(),
			State:    h.State(),
			Complete: validate.Required(h.Snapshot()),
		})
	}
	return ov, nil
}
