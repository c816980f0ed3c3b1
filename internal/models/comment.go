package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post
type Comment struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Post      primitive.ObjectID   `json:"post" bson:"post"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Content   string               `json:"content" bson:"content"`
	Likes     []primitive.ObjectID `json:"-" bson:"likes"`
	Reports   []Report             `json:"-" bson:"reports"`
	IsActive  bool                 `json:"isActive" bson:"isActive"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type CommentView struct {
	ID         primitive.ObjectID `json:"id"`
	Post       primitive.ObjectID `json:"post"`
	Author     *UserCompact       `json:"author"`
	Content    string             `json:"content"`
	LikesCount int                `json:"likesCount"`
	IsLiked    bool               `json:"isLiked"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
