package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is embedded in posts and comments. Documents written before statuses
// existed have an empty Status, which reads as pending.
type Report struct {
	User       primitive.ObjectID `json:"user" bson:"user"`
	Reason     string             `json:"reason" bson:"reason"`
	Status     ReportStatus       `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	ReviewedAt *time.Time         `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
}

func (r Report) EffectiveStatus() ReportStatus {
	if r.Status == "" {
		return ReportPending
	}
	return r.Status
}

type ReportTarget string

const (
	TargetPost    ReportTarget = "post"
	TargetComment ReportTarget = "comment"
)

// ReportRow is one flattened report as listed to administrators.
type ReportRow struct {
	ID        string             `json:"id"`
	Type      ReportTarget       `json:"type"`
	TargetID  primitive.ObjectID `json:"targetId"`
	Reporter  *ReporterInfo      `json:"reporter"`
	Reason    string             `json:"reason"`
	Status    ReportStatus       `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ReporterInfo struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`
}

type ReviewReportRequest struct {
	Status ReportStatus `json:"status" validate:"required,oneof=pending reviewed dismissed"`
	Reason string       `json:"reason" validate:"omitempty,max=500"`
}

// Statistics is the admin dashboard summary.
type Statistics struct {
	TotalUsers      int64           `json:"totalUsers"`
	ActiveUsers     int64           `json:"activeUsers"`
	TotalPosts      int64           `json:"totalPosts"`
	TotalComments   int64           `json:"totalComments"`
	TotalPets       int64           `json:"totalPets"`
	PostsByCategory []CategoryCount `json:"postsByCategory"`
	MostPopularPets []PetPopularity `json:"mostPopularPets"`
	ReportedPosts   int64           `json:"reportedPosts"`
}

type CategoryCount struct {
	Category string `json:"category" bson:"_id"`
	Count    int64  `json:"count" bson:"count"`
}

type PetPopularity struct {
	PetID      primitive.ObjectID `json:"petId" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Owner      primitive.ObjectID `json:"owner" bson:"owner"`
	LikesCount int64              `json:"likesCount" bson:"likesCount"`
}
