package services

import (
	"context"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService struct {
	categories repositories.CategoryRepository
	posts      repositories.PostRepository
}

func NewCategoryService(categories repositories.CategoryRepository, posts repositories.PostRepository) *CategoryService {
	return &CategoryService{categories: categories, posts: posts}
}

// List returns the active categories, each with its number of active posts.
func (s *CategoryService) List(ctx context.Context) ([]models.CategoryView, error) {
	categories, err := s.categories.ListActiveCategories(ctx)
	if err != nil {
		return nil, storeErr(err, "categories")
	}
	out := make([]models.CategoryView, 0, len(categories))
	for _, c := range categories {
		n, err := s.posts.CountPosts(ctx, models.PostFilter{Category: c.Name})
		if err != nil {
			return nil, storeErr(err, "posts")
		}
		out = append(out, models.CategoryView{Category: c, PostsCount: n})
	}
	return out, nil
}

func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.ToLower(strings.TrimSpace(req.Name)),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, storeErr(err, "category")
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categories.UpdateCategory(ctx, id, models.CategoryPatch{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return nil, storeErr(err, "category")
	}
	return category, nil
}

// Deactivate hides the category; it is never removed.
func (s *CategoryService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	inactive := false
	_, err := s.categories.UpdateCategory(ctx, id, models.CategoryPatch{IsActive: &inactive})
	return storeErr(err, "category")
}
