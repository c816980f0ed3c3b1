package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is an admin-managed content category. Deleting one only deactivates it.
type Category struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	Description string             `json:"description" bson:"description"`
	Icon        string             `json:"icon" bson:"icon"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CategoryPatch struct {
	DisplayName *string
	Description *string
	Icon        *string
	IsActive    *bool
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=30"`
	DisplayName string `json:"displayName" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Icon        string `json:"icon"`
}

type UpdateCategoryRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"isActive"`
}

// CategoryView is a category with the number of active posts tagged with its name.
type CategoryView struct {
	Category
	PostsCount int64 `json:"postsCount"`
}
