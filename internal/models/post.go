package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories a post or pet may be tagged with.
var Species = []string{"dog", "cat", "bird", "exotic", "other"}

type MediaItem struct {
	Type string `json:"type" bson:"type" validate:"required,oneof=image video"`
	URL  string `json:"url" bson:"url" validate:"required"`
}

// Post represents a post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Pet       *primitive.ObjectID  `json:"pet,omitempty" bson:"pet,omitempty"`
	Content   string               `json:"content" bson:"content"`
	Media     []MediaItem          `json:"media" bson:"media"`
	Category  string               `json:"category" bson:"category"`
	Likes     []primitive.ObjectID `json:"-" bson:"likes"`
	Comments  []primitive.ObjectID `json:"-" bson:"comments"`
	Reports   []Report             `json:"-" bson:"reports"`
	IsActive  bool                 `json:"isActive" bson:"isActive"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// CreatePostRequest defines the request body for creating a post
type CreatePostRequest struct {
	Content  string      `json:"content" validate:"required,max=2000"`
	Pet      string      `json:"pet" validate:"omitempty,objectid"`
	Media    []MediaItem `json:"media" validate:"omitempty,max=10,dive"`
	Category string      `json:"category" validate:"required,species"`
}

// UpdatePostRequest defines the request body for updating a post
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type ReportRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// PostView is the read model returned for every post. Like and report lists never leave the server.
type PostView struct {
	ID            primitive.ObjectID `json:"id"`
	Author        *UserCompact       `json:"author"`
	Pet           *PetCompact        `json:"pet,omitempty"`
	Content       string             `json:"content"`
	Media         []MediaItem        `json:"media"`
	Category      string             `json:"category"`
	LikesCount    int                `json:"likesCount"`
	CommentsCount int                `json:"commentsCount"`
	IsLiked       bool               `json:"isLiked"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// LikeResult is the persisted outcome of a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// PostFilter narrows a post listing. A non-nil empty Authors matches nothing.
type PostFilter struct {
	IncludeInactive bool
	Category        string
	Authors         []primitive.ObjectID
	Query           string
}

// ContainsID reports whether id is in ids.
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
