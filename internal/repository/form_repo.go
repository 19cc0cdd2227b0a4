package repository

import (
	"context"
	"errors"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/apiclient"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

const FormsPath = "/forms"

type FormRepo struct {
	api *apiclient.Client
}

func NewFormRepo(api *apiclient.Client) *FormRepo {
	return &FormRepo{api: api}
}

func (r *FormRepo) List(ctx context.Context) ([]models.FormDocument, error) {
	var forms []models.FormDocument
	if err := r.api.Get(ctx, FormsPath, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// Replace sends doc as the full new state of the form.
func (r *FormRepo) Replace(ctx context.Context, doc models.FormDocument) error {
	if doc.ID == "" {
		return errors.New("form has no id")
	}
	_, err := r.api.Put(ctx, itemPath(FormsPath, doc.ID), doc, nil)
	return err
}

func (r *FormRepo) Count(ctx context.Context) (int, error) {
	forms, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(forms), nil
}
