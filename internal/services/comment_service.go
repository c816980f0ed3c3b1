package services

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/metrics"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	views    viewBuilder
	now      func() time.Time
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository,
	users repositories.UserRepository, pets repositories.PetRepository) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		views:    viewBuilder{users: users, pets: pets},
		now:      time.Now,
	}
}

func (s *CommentService) requireActivePost(ctx context.Context, postID primitive.ObjectID) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return storeErr(err, "post")
	}
	if !post.IsActive {
		return apperrors.NotFoundf("post not found")
	}
	return nil
}

func (s *CommentService) activeComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	if !comment.IsActive {
		return nil, apperrors.NotFoundf("comment not found")
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, p models.Principal, postID primitive.ObjectID, req models.CreateCommentRequest) (*models.CommentView, error) {
	if err := s.requireActivePost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{Post: postID, Author: p.UserID, Content: strings.TrimSpace(req.Content)}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, storeErr(err, "comment")
	}
	if err := s.posts.AddComment(ctx, postID, comment.ID); err != nil {
		if derr := s.comments.DeleteComment(ctx, comment.ID); derr != nil {
			log.WithError(derr).WithField("comment_id", comment.ID.Hex()).Warn("failed to remove comment after post update failed")
		}
		return nil, storeErr(err, "post")
	}
	views, err := s.views.comments(ctx, []models.Comment{*comment}, &p)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListByPost returns the post's active comments, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID primitive.ObjectID, q models.PageQuery, viewer *models.Principal) (models.Page[models.CommentView], error) {
	if err := s.requireActivePost(ctx, postID); err != nil {
		return models.Page[models.CommentView]{}, err
	}
	comments, total, err := s.comments.ListByPost(ctx, postID, q.Skip(), int64(q.Limit))
	if err != nil {
		return models.Page[models.CommentView]{}, storeErr(err, "comments")
	}
	views, err := s.views.comments(ctx, comments, viewer)
	if err != nil {
		return models.Page[models.CommentView]{}, err
	}
	return models.NewPage(views, q, total), nil
}

func (s *CommentService) Update(ctx context.Context, p models.Principal, id primitive.ObjectID, req models.UpdateCommentRequest) (*models.CommentView, error) {
	comment, err := s.activeComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanModify(comment.Author) {
		return nil, forbidden("edit this comment")
	}
	updated, err := s.comments.UpdateContent(ctx, id, strings.TrimSpace(req.Content))
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	views, err := s.views.comments(ctx, []models.Comment{*updated}, &p)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete deactivates the comment and drops it from its post's comment list.
func (s *CommentService) Delete(ctx context.Context, p models.Principal, id primitive.ObjectID) error {
	comment, err := s.activeComment(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(comment.Author) {
		return forbidden("delete this comment")
	}
	if err := s.comments.SoftDeleteComment(ctx, id); err != nil {
		return storeErr(err, "comment")
	}
	if err := s.posts.RemoveComment(ctx, comment.Post, id); err != nil {
		return storeErr(err, "post")
	}
	return nil
}

func (s *CommentService) ToggleLike(ctx context.Context, p models.Principal, id primitive.ObjectID) (*models.LikeResult, error) {
	comment, err := s.comments.ToggleLike(ctx, id, p.UserID)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	res := &models.LikeResult{Liked: models.ContainsID(comment.Likes, p.UserID), LikesCount: len(comment.Likes)}
	if res.Liked {
		metrics.RecordSocialEvent("comment_like")
	}
	return res, nil
}

func (s *CommentService) Report(ctx context.Context, p models.Principal, id primitive.ObjectID, req models.ReportRequest) error {
	report := models.Report{
		User:      p.UserID,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    models.ReportPending,
		CreatedAt: s.now(),
	}
	if err := s.comments.AddReport(ctx, id, report); err != nil {
		return storeErr(err, "comment")
	}
	metrics.RecordSocialEvent("report")
	return nil
}
