package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account stored in the users collection.
type User struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username       string               `json:"username" bson:"username"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"-" bson:"password"` // bcrypt hash
	FullName       string               `json:"fullName" bson:"fullName"`
	Bio            string               `json:"bio" bson:"bio"`
	ProfilePicture string               `json:"profilePicture" bson:"profilePicture"`
	Role           Role                 `json:"role" bson:"role"`
	Pets           []primitive.ObjectID `json:"pets" bson:"pets"`
	Followers      []primitive.ObjectID `json:"-" bson:"followers"`
	Following      []primitive.ObjectID `json:"-" bson:"following"`
	IsActive       bool                 `json:"isActive" bson:"isActive"`
	FirebaseUID    string               `json:"-" bson:"firebaseUid,omitempty"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserCompact is the author/follower summary embedded in other responses.
type UserCompact struct {
	ID             primitive.ObjectID `json:"id"`
	Username       string             `json:"username"`
	FullName       string             `json:"fullName"`
	ProfilePicture string             `json:"profilePicture"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
	}
}

// UserPatch lists the account fields an update may touch. Nil fields are left alone.
type UserPatch struct {
	FullName       *string
	Bio            *string
	ProfilePicture *string
	Role           *Role
	IsActive       *bool
	Password       *string
	FirebaseUID    *string
}

// RegisterRequest is the public sign-up payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,strongpassword"`
	FullName string `json:"fullName" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateUserRequest struct {
	FullName       *string `json:"fullName" validate:"omitempty,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72,strongpassword"`
}

// AdminCreateUserRequest lets an administrator create any account, including other admins.
type AdminCreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"omitempty,max=100"`
	Role     Role   `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

type BlockUserRequest struct {
	Blocked *bool  `json:"blocked" validate:"required"`
	Reason  string `json:"reason" validate:"omitempty,max=500"`
}

type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=USER ADMIN"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// The account id travels in Subject.
type JwtCustomClaims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// ProfileView is an account as shown on a profile page. Email is omitted for other viewers.
type ProfileView struct {
	ID             primitive.ObjectID `json:"id"`
	Username       string             `json:"username"`
	Email          string             `json:"email,omitempty"`
	FullName       string             `json:"fullName"`
	Bio            string             `json:"bio"`
	ProfilePicture string             `json:"profilePicture"`
	Role           Role               `json:"role"`
	IsActive       bool               `json:"isActive"`
	Pets           []PetCompact       `json:"pets"`
	FollowersCount int                `json:"followersCount"`
	FollowingCount int                `json:"followingCount"`
	PostsCount     int64              `json:"postsCount"`
	IsFollowing    *bool              `json:"isFollowing,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

type FollowResult struct {
	Message        string `json:"message"`
	Following      bool   `json:"following"`
	FollowersCount int    `json:"followersCount"`
}
