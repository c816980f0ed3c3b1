package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Principal is the identity resolved for a request from a valid token and an active account.
type Principal struct {
	UserID primitive.ObjectID `json:"userId"`
	Email  string             `json:"email"`
	Role   Role               `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanModify reports whether p may mutate a resource owned by owner.
func (p Principal) CanModify(owner primitive.ObjectID) bool {
	return p.UserID == owner || p.IsAdmin()
}
