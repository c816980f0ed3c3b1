package services

import (
	"context"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// viewBuilder turns stored posts and comments into read models with author
// and pet summaries and the viewer's like flag.
type viewBuilder struct {
	users repositories.UserRepository
	pets  repositories.PetRepository
}

func viewerID(viewer *models.Principal) primitive.ObjectID {
	if viewer == nil {
		return primitive.NilObjectID
	}
	return viewer.UserID
}

func (b viewBuilder) authors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error) {
	users, err := b.users.GetUsersByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, storeErr(err, "users")
	}
	out := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for i := range users {
		out[users[i].ID] = users[i].ToCompact()
	}
	return out, nil
}

func (b viewBuilder) posts(ctx context.Context, posts []models.Post, viewer *models.Principal) ([]models.PostView, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	var petIDs []primitive.ObjectID
	for i := range posts {
		authorIDs = append(authorIDs, posts[i].Author)
		if posts[i].Pet != nil {
			petIDs = append(petIDs, *posts[i].Pet)
		}
	}
	authors, err := b.authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	pets := map[primitive.ObjectID]models.PetCompact{}
	if len(petIDs) > 0 {
		found, err := b.pets.GetPetsByIDs(ctx, uniqueIDs(petIDs))
		if err != nil {
			return nil, storeErr(err, "pets")
		}
		for i := range found {
			pets[found[i].ID] = found[i].ToCompact()
		}
	}

	me := viewerID(viewer)
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		v := models.PostView{
			ID:            p.ID,
			Content:       p.Content,
			Media:         p.Media,
			Category:      p.Category,
			LikesCount:    len(p.Likes),
			CommentsCount: len(p.Comments),
			IsLiked:       viewer != nil && models.ContainsID(p.Likes, me),
			IsActive:      p.IsActive,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		}
		if v.Media == nil {
			v.Media = []models.MediaItem{}
		}
		if a, ok := authors[p.Author]; ok {
			v.Author = &a
		}
		if p.Pet != nil {
			if pet, ok := pets[*p.Pet]; ok {
				v.Pet = &pet
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (b viewBuilder) post(ctx context.Context, post *models.Post, viewer *models.Principal) (*models.PostView, error) {
	views, err := b.posts(ctx, []models.Post{*post}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (b viewBuilder) comments(ctx context.Context, comments []models.Comment, viewer *models.Principal) ([]models.CommentView, error) {
	ids := make([]primitive.ObjectID, 0, len(comments))
	for i := range comments {
		ids = append(ids, comments[i].Author)
	}
	authors, err := b.authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	me := viewerID(viewer)
	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		v := models.CommentView{
			ID:         c.ID,
			Post:       c.Post,
			Content:    c.Content,
			LikesCount: len(c.Likes),
			IsLiked:    viewer != nil && models.ContainsID(c.Likes, me),
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		}
		if a, ok := authors[c.Author]; ok {
			v.Author = &a
		}
		views = append(views, v)
	}
	return views, nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
