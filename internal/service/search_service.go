package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

type SearchRequest struct {
	Query string `json:"query"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// SearchHit points at one record whose text matched.
type SearchHit struct {
	Kind  string `json:"kind"` // form, field, employee, company
	ID    string `json:"id"`
	Title string `json:"title"`
	// Path locates a field hit inside its form, e.g. "steps[1].fields[0]".
	Path string `json:"path,omitempty"`
}

type SearchResult struct {
	Hits  []SearchHit `json:"hits"`
	Total int         `json:"total"`
}

func contains(q string, vals ...string) bool {
	for _, v := range vals {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// Search matches q case-insensitively against form names and field labels
// of the editable copies, and against the directory collections.
func (w *Workspace) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(req.Query))
	if req.Limit <= 0 {
		req.Limit = 20
	}
	req.Skip = max(req.Skip, 0)
	if q == "" {
		return SearchResult{Hits: []SearchHit{}}, nil
	}

	var (
		forms     []FormView
		employees []models.Employee
		companies []models.Company
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { forms, err = w.Forms.List(gctx); return err })
	g.Go(func() (err error) { employees, err = w.Employees.List(gctx); return err })
	g.Go(func() (err error) { companies, err = w.Companies.List(gctx); return err })
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}

	var hits []SearchHit
	for _, f := range forms {
		d := f.Form
		if contains(q, d.FormName, d.Description) {
			hits = append(hits, SearchHit{Kind: "form", ID: d.ID, Title: d.FormName})
		}
		for i, s := range d.Steps {
			for j, fld := range s.Fields {
				if contains(q, fld.Label, fld.Name) {
					hits = append(hits, SearchHit{Kind: "field", ID: d.ID, Title: fld.Label, Path: fieldPath(i, j)})
				}
			}
		}
	}
	for _, e := range employees {
		if contains(q, e.FirstName+" "+e.LastName, e.Email, e.Position, e.Department) {
			hits = append(hits, SearchHit{Kind: "employee", ID: e.ID, Title: e.FirstName + " " + e.LastName})
		}
	}
	for _, c := range companies {
		if contains(q, c.Name, c.City, c.Email) {
			hits = append(hits, SearchHit{Kind: "company", ID: c.ID, Title: c.Name})
		}
	}

	res := SearchResult{Total: len(hits), Hits: []SearchHit{}}
	if req.Skip < len(hits) {
		end := min(req.Skip+req.Limit, len(hits))
		res.Hits = hits[req.Skip:end]
	}
	return res, nil
}

func fieldPath(step, field int) string {
	return fmt.Sprintf("steps[%d].fields[%d]", step, field)
}
