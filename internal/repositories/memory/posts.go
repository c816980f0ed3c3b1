package memory

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostRepository struct {
	s *Store
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func clonePost(p *models.Post) *models.Post {
	c := *p
	if p.Pet != nil {
		pet := *p.Pet
		c.Pet = &pet
	}
	c.Media = append([]models.MediaItem(nil), p.Media...)
	c.Likes = cloneIDs(p.Likes)
	c.Comments = cloneIDs(p.Comments)
	c.Reports = cloneReports(p.Reports)
	return &c
}

func matchPost(p *models.Post, f models.PostFilter) bool {
	if !f.IncludeInactive && !p.IsActive {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Authors != nil && !models.ContainsID(f.Authors, p.Author) {
		return false
	}
	if f.Query != "" && !containsFold(p.Content, f.Query) {
		return false
	}
	return true
}

func (r *PostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = r.s.now()
	post.UpdatedAt = post.CreatedAt
	post.IsActive = true
	if post.Media == nil {
		post.Media = []models.MediaItem{}
	}
	post.Likes = []primitive.ObjectID{}
	post.Comments = []primitive.ObjectID{}
	post.Reports = []models.Report{}
	r.s.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) ListPosts(_ context.Context, f models.PostFilter, skip, limit int64) ([]models.Post, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []models.Post
	for _, p := range r.s.posts {
		if matchPost(p, f) {
			all = append(all, *clonePost(p))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return newerFirst(all[i].CreatedAt, all[j].CreatedAt, all[i].ID, all[j].ID)
	})
	return window(all, skip, limit), int64(len(all)), nil
}

func (r *PostRepository) CountPosts(_ context.Context, f models.PostFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, p := range r.s.posts {
		if matchPost(p, f) {
			n++
		}
	}
	return n, nil
}

// mutate runs fn on the stored post under the write lock.
func (r *PostRepository) mutate(id primitive.ObjectID, activeOnly bool, fn func(p *models.Post) error) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok || (activeOnly && !p.IsActive) {
		return nil, repositories.ErrNotFound
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return clonePost(p), nil
}

func (r *PostRepository) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Post, error) {
	return r.mutate(id, true, func(p *models.Post) error {
		p.Content = content
		p.UpdatedAt = r.s.now()
		return nil
	})
}

func (r *PostRepository) SoftDeletePost(_ context.Context, id primitive.ObjectID) error {
	_, err := r.mutate(id, false, func(p *models.Post) error {
		p.IsActive = false
		p.UpdatedAt = r.s.now()
		return nil
	})
	return err
}

func (r *PostRepository) DeletePost(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *PostRepository) ToggleLike(_ context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	return r.mutate(id, true, func(p *models.Post) error {
		if models.ContainsID(p.Likes, userID) {
			p.Likes = removeID(p.Likes, userID)
		} else {
			p.Likes = append(p.Likes, userID)
		}
		p.UpdatedAt = r.s.now()
		return nil
	})
}

func (r *PostRepository) AddComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	_, err := r.mutate(postID, false, func(p *models.Post) error {
		p.Comments = addID(p.Comments, commentID)
		return nil
	})
	return err
}

func (r *PostRepository) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	_, err := r.mutate(postID, false, func(p *models.Post) error {
		p.Comments = removeID(p.Comments, commentID)
		return nil
	})
	return err
}

func (r *PostRepository) AddReport(_ context.Context, id primitive.ObjectID, report models.Report) error {
	_, err := r.mutate(id, true, func(p *models.Post) error {
		p.Reports = append(p.Reports, report)
		return nil
	})
	return err
}

func (r *PostRepository) SetReportStatus(_ context.Context, id primitive.ObjectID, index int, status models.ReportStatus, at time.Time) error {
	_, err := r.mutate(id, false, func(p *models.Post) error {
		return setStatus(p.Reports, index, status, at)
	})
	return err
}

func setStatus(reports []models.Report, index int, status models.ReportStatus, at time.Time) error {
	if index < 0 || index >= len(reports) {
		return repositories.ErrNotFound
	}
	reports[index].Status = status
	reports[index].ReviewedAt = &at
	return nil
}
