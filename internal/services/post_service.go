package services

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/metrics"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	pets  repositories.PetRepository
	views viewBuilder
	now   func() time.Time
}

func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, pets repositories.PetRepository) *PostService {
	return &PostService{
		posts: posts,
		users: users,
		pets:  pets,
		views: viewBuilder{users: users, pets: pets},
		now:   time.Now,
	}
}

func (s *PostService) Create(ctx context.Context, p models.Principal, req models.CreatePostRequest) (*models.PostView, error) {
	post := &models.Post{
		Author:   p.UserID,
		Content:  strings.TrimSpace(req.Content),
		Media:    req.Media,
		Category: req.Category,
	}
	if req.Pet != "" {
		petID, err := primitive.ObjectIDFromHex(req.Pet)
		if err != nil {
			return nil, apperrors.Validationf("pet must be a valid id")
		}
		pet, err := s.pets.GetPetByID(ctx, petID)
		if err != nil {
			return nil, storeErr(err, "pet")
		}
		if !p.CanModify(pet.Owner) {
			return nil, forbidden("post about this pet")
		}
		post.Pet = &petID
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, storeErr(err, "post")
	}
	return s.views.post(ctx, post, &p)
}

// activePost loads a post that is visible to the public.
func (s *PostService) activePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "post")
	}
	if !post.IsActive {
		return nil, apperrors.NotFoundf("post not found")
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id primitive.ObjectID, viewer *models.Principal) (*models.PostView, error) {
	post, err := s.activePost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.views.post(ctx, post, viewer)
}

func (s *PostService) list(ctx context.Context, filter models.PostFilter, q models.PageQuery, viewer *models.Principal) (models.Page[models.PostView], error) {
	posts, total, err := s.posts.ListPosts(ctx, filter, q.Skip(), int64(q.Limit))
	if err != nil {
		return models.Page[models.PostView]{}, storeErr(err, "posts")
	}
	views, err := s.views.posts(ctx, posts, viewer)
	if err != nil {
		return models.Page[models.PostView]{}, err
	}
	return models.NewPage(views, q, total), nil
}

// Feed lists active posts newest first, optionally restricted to one category.
func (s *PostService) Feed(ctx context.Context, category string, q models.PageQuery, viewer *models.Principal) (models.Page[models.PostView], error) {
	return s.list(ctx, models.PostFilter{Category: category}, q, viewer)
}

// FollowingFeed lists active posts written by the accounts p follows.
func (s *PostService) FollowingFeed(ctx context.Context, p models.Principal, q models.PageQuery) (models.Page[models.PostView], error) {
	me, err := s.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		return models.Page[models.PostView]{}, storeErr(err, "user")
	}
	following := me.Following
	if following == nil {
		following = []primitive.ObjectID{}
	}
	return s.list(ctx, models.PostFilter{Authors: following}, q, &p)
}

func (s *PostService) ByAuthor(ctx context.Context, author primitive.ObjectID, q models.PageQuery, viewer *models.Principal) (models.Page[models.PostView], error) {
	if _, err := s.users.GetUserByID(ctx, author); err != nil {
		return models.Page[models.PostView]{}, storeErr(err, "user")
	}
	return s.list(ctx, models.PostFilter{Authors: []primitive.ObjectID{author}}, q, viewer)
}

// Search matches the literal text q inside post content, case-insensitively.
func (s *PostService) Search(ctx context.Context, q, category string, page models.PageQuery, viewer *models.Principal) (models.Page[models.PostView], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return models.Page[models.PostView]{}, apperrors.Validationf("search query must not be empty")
	}
	return s.list(ctx, models.PostFilter{Category: category, Query: q}, page, viewer)
}

func (s *PostService) Update(ctx context.Context, p models.Principal, id primitive.ObjectID, req models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.activePost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanModify(post.Author) {
		return nil, forbidden("edit this post")
	}
	updated, err := s.posts.UpdateContent(ctx, id, strings.TrimSpace(req.Content))
	if err != nil {
		return nil, storeErr(err, "post")
	}
	return s.views.post(ctx, updated, &p)
}

// Delete hides the post from every public listing.
func (s *PostService) Delete(ctx context.Context, p models.Principal, id primitive.ObjectID) error {
	post, err := s.activePost(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(post.Author) {
		return forbidden("delete this post")
	}
	return storeErr(s.posts.SoftDeletePost(ctx, id), "post")
}

// ToggleLike flips p's like on the post and reports the persisted outcome.
func (s *PostService) ToggleLike(ctx context.Context, p models.Principal, id primitive.ObjectID) (*models.LikeResult, error) {
	post, err := s.posts.ToggleLike(ctx, id, p.UserID)
	if err != nil {
		return nil, storeErr(err, "post")
	}
	res := &models.LikeResult{Liked: models.ContainsID(post.Likes, p.UserID), LikesCount: len(post.Likes)}
	if res.Liked {
		metrics.RecordSocialEvent("like")
	} else {
		metrics.RecordSocialEvent("unlike")
	}
	return res, nil
}

func (s *PostService) Report(ctx context.Context, p models.Principal, id primitive.ObjectID, req models.ReportRequest) error {
	report := models.Report{
		User:      p.UserID,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    models.ReportPending,
		CreatedAt: s.now(),
	}
	if err := s.posts.AddReport(ctx, id, report); err != nil {
		return storeErr(err, "post")
	}
	metrics.RecordSocialEvent("report")
	return nil
}
