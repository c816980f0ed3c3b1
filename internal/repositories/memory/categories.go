package memory

import (
	"context"
	"sort"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryRepository struct {
	s *Store
}

var _ repositories.CategoryRepository = (*CategoryRepository)(nil)

func (r *CategoryRepository) CreateCategory(_ context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == category.Name {
			return repositories.ErrDuplicate
		}
	}
	category.ID = primitive.NewObjectID()
	category.CreatedAt = r.s.now()
	category.UpdatedAt = category.CreatedAt
	category.IsActive = true
	c := *category
	r.s.categories[c.ID] = &c
	return nil
}

func (r *CategoryRepository) GetCategoryByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *CategoryRepository) ListActiveCategories(_ context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Category
	for _, c := range r.s.categories {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) UpdateCategory(_ context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.DisplayName != nil {
		c.DisplayName = *patch.DisplayName
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	c.UpdatedAt = r.s.now()
	out := *c
	return &out, nil
}
