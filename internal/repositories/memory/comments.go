package memory

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentRepository struct {
	s *Store
}

var _ repositories.CommentRepository = (*CommentRepository)(nil)

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	out.Likes = cloneIDs(c.Likes)
	out.Reports = cloneReports(c.Reports)
	return &out
}

func (r *CommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = r.s.now()
	comment.UpdatedAt = comment.CreatedAt
	comment.IsActive = true
	comment.Likes = []primitive.ObjectID{}
	comment.Reports = []models.Report{}
	r.s.comments[comment.ID] = cloneComment(comment)
	return nil
}

func (r *CommentRepository) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) ListByPost(_ context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []models.Comment
	for _, c := range r.s.comments {
		if c.Post == postID && c.IsActive {
			all = append(all, *cloneComment(c))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return bytes.Compare(all[i].ID[:], all[j].ID[:]) < 0
	})
	return window(all, skip, limit), int64(len(all)), nil
}

func (r *CommentRepository) mutate(id primitive.ObjectID, activeOnly bool, fn func(c *models.Comment) error) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok || (activeOnly && !c.IsActive) {
		return nil, repositories.ErrNotFound
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	return r.mutate(id, true, func(c *models.Comment) error {
		c.Content = content
		c.UpdatedAt = r.s.now()
		return nil
	})
}

func (r *CommentRepository) SoftDeleteComment(_ context.Context, id primitive.ObjectID) error {
	_, err := r.mutate(id, false, func(c *models.Comment) error {
		c.IsActive = false
		c.UpdatedAt = r.s.now()
		return nil
	})
	return err
}

func (r *CommentRepository) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *CommentRepository) DeleteByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.comments {
		if c.Post == postID {
			delete(r.s.comments, id)
			n++
		}
	}
	return n, nil
}

func (r *CommentRepository) ToggleLike(_ context.Context, id, userID primitive.ObjectID) (*models.Comment, error) {
	return r.mutate(id, true, func(c *models.Comment) error {
		if models.ContainsID(c.Likes, userID) {
			c.Likes = removeID(c.Likes, userID)
		} else {
			c.Likes = append(c.Likes, userID)
		}
		c.UpdatedAt = r.s.now()
		return nil
	})
}

func (r *CommentRepository) AddReport(_ context.Context, id primitive.ObjectID, report models.Report) error {
	_, err := r.mutate(id, true, func(c *models.Comment) error {
		c.Reports = append(c.Reports, report)
		return nil
	})
	return err
}

func (r *CommentRepository) SetReportStatus(_ context.Context, id primitive.ObjectID, index int, status models.ReportStatus, at time.Time) error {
	_, err := r.mutate(id, false, func(c *models.Comment) error {
		return setStatus(c.Reports, index, status, at)
	})
	return err
}

func (r *CommentRepository) CountComments(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.comments)), nil
}
