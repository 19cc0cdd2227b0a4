package repository

import (
	"context"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/apiclient"
)

const SectionsPath = "/sections"

type SectionRepo struct {
	api *apiclient.Client
}

func NewSectionRepo(api *apiclient.Client) *SectionRepo {
	return &SectionRepo{api: api}
}

func (r *SectionRepo) Get(ctx context.Context, name string, out any) error {
	return r.api.Get(ctx, itemPath(SectionsPath, name), out)
}

func (r *SectionRepo) Put(ctx context.Context, name string, v any) error {
	_, err := r.api.Put(ctx, itemPath(SectionsPath, name), v, nil)
	return err
}
