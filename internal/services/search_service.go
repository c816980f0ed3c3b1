package services

import (
	"context"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

type SearchService struct {
	users repositories.UserRepository
	posts *PostService
}

func NewSearchService(users repositories.UserRepository, posts *PostService) *SearchService {
	return &SearchService{users: users, posts: posts}
}

// Users matches q literally against username and full name of active accounts.
func (s *SearchService) Users(ctx context.Context, q string, page models.PageQuery) (models.Page[models.UserCompact], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return models.Page[models.UserCompact]{}, apperrors.Validationf("search query must not be empty")
	}
	users, total, err := s.users.SearchUsers(ctx, q, page.Skip(), int64(page.Limit))
	if err != nil {
		return models.Page[models.UserCompact]{}, storeErr(err, "users")
	}
	items := make([]models.UserCompact, 0, len(users))
	for i := range users {
		items = append(items, users[i].ToCompact())
	}
	return models.NewPage(items, page, total), nil
}

func (s *SearchService) Posts(ctx context.Context, q, category string, page models.PageQuery, viewer *models.Principal) (models.Page[models.PostView], error) {
	return s.posts.Search(ctx, q, category, page, viewer)
}
