package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/export"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/formbuilder"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/repository"
)

// ErrNothingToSave is returned when a save is requested for a form without
// local changes. The editor is not called.
var ErrNothingToSave = errors.New("form has no unsaved changes")

// FormView is one editable form plus its save-control state.
type FormView struct {
	Form    models.FormDocument `json:"form"`
	CanSave bool                `json:"canSave"`
}

type FormService struct {
	forms  *repository.FormRepo
	editor *formbuilder.Editor
}

func NewFormService(forms *repository.FormRepo, editor *formbuilder.Editor) *FormService {
	return &FormService{forms: forms, editor: editor}
}

func (s *FormService) Editor() *formbuilder.Editor { return s.editor }

func (s *FormService) ensureLoaded(ctx context.Context) error {
	if s.editor.Loaded() {
		return nil
	}
	return s.editor.Load(ctx)
}

func view(d models.FormDocument) FormView {
	return FormView{Form: d, CanSave: d.IsChanged}
}

// List returns the editable copies, fetching the collection on first use.
func (s *FormService) List(ctx context.Context) ([]FormView, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	docs := s.editor.Documents()
	out := make([]FormView, 0, len(docs))
	for _, d := range docs {
		out = append(out, view(d))
	}
	return out, nil
}

// Reload discards every local edit and refetches.
func (s *FormService) Reload(ctx context.Context) ([]FormView, error) {
	if err := s.editor.Load(ctx); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *FormService) Get(ctx context.Context, id string) (FormView, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return FormView{}, err
	}
	d, ok := s.editor.Document(id)
	if !ok {
		return FormView{}, fmt.Errorf("%w: %s", formbuilder.ErrUnknownDocument, id)
	}
	return view(d), nil
}

// Apply runs a batch of edit commands atomically against form id.
func (s *FormService) Apply(ctx context.Context, id string, cmds []formbuilder.Command) (FormView, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return FormView{}, err
	}
	edits, err := formbuilder.Edits(cmds)
	if err != nil {
		return FormView{}, err
	}
	d, err := s.editor.Apply(id, edits...)
	if err != nil {
		return FormView{}, err
	}
	return view(d), nil
}

func (s *FormService) AddStep(ctx context.Context, id string) (FormView, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return FormView{}, err
	}
	d, err := s.editor.AddStep(id)
	if err != nil {
		return FormView{}, err
	}
	return view(d), nil
}

// Save sends form id when it has unsaved changes.
func (s *FormService) Save(ctx context.Context, id string) (formbuilder.SaveResult, error) {
	if _, ok := s.editor.Document(id); !ok {
		return formbuilder.SaveResult{}, fmt.Errorf("%w: %s", formbuilder.ErrUnknownDocument, id)
	}
	if !s.editor.CanSave(id) {
		return formbuilder.SaveResult{}, ErrNothingToSave
	}
	return s.editor.Save(ctx, id), nil
}

// Count asks the backend directly, leaving the editor untouched.
func (s *FormService) Count(ctx context.Context) (int, error) {
	return s.forms.Count(ctx)
}

// ExportCSV flattens the server copy of every form, one row per field.
func (s *FormService) ExportCSV(ctx context.Context) ([]byte, error) {
	docs, err := s.forms.List(ctx)
	if err != nil {
		return nil, err
	}
	return export.CSV(export.FormRows(docs))
}
