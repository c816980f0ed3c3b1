package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pet is a pet profile owned by one account.
type Pet struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Type           string             `json:"type" bson:"type"` // dog, cat, bird, exotic, other
	Breed          string             `json:"breed" bson:"breed"`
	Age            *int               `json:"age,omitempty" bson:"age,omitempty"`
	Description    string             `json:"description" bson:"description"`
	Photos         []string           `json:"photos" bson:"photos"`
	ProfilePicture string             `json:"profilePicture" bson:"profilePicture"`
	Owner          primitive.ObjectID `json:"owner" bson:"owner"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PetCompact is the pet summary embedded in posts and profiles.
type PetCompact struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Type   string             `json:"type"`
	Photos []string           `json:"photos"`
}

func (p *Pet) ToCompact() PetCompact {
	return PetCompact{ID: p.ID, Name: p.Name, Type: p.Type, Photos: p.Photos}
}

type PetPatch struct {
	Name           *string
	Type           *string
	Breed          *string
	Age            *int
	Description    *string
	Photos         []string
	ProfilePicture *string
}

type CreatePetRequest struct {
	Name           string   `json:"name" validate:"required,max=50"`
	Type           string   `json:"type" validate:"required,species"`
	Breed          string   `json:"breed" validate:"omitempty,max=50"`
	Age            *int     `json:"age" validate:"omitempty,min=0,max=100"`
	Description    string   `json:"description" validate:"omitempty,max=1000"`
	Photos         []string `json:"photos" validate:"omitempty,max=20,dive,required"`
	ProfilePicture string   `json:"profilePicture"`
}

type UpdatePetRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=50"`
	Type           *string  `json:"type" validate:"omitempty,species"`
	Breed          *string  `json:"breed" validate:"omitempty,max=50"`
	Age            *int     `json:"age" validate:"omitempty,min=0,max=100"`
	Description    *string  `json:"description" validate:"omitempty,max=1000"`
	Photos         []string `json:"photos" validate:"omitempty,max=20,dive,required"`
	ProfilePicture *string  `json:"profilePicture"`
}

// PetView is a pet with its owner summary.
type PetView struct {
	Pet
	OwnerInfo *UserCompact `json:"ownerInfo,omitempty"`
}
