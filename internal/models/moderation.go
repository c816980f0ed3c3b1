package models

import "time"

type ModerationActionType string

const (
	ActionDeletePost    ModerationActionType = "delete_post"
	ActionDeleteComment ModerationActionType = "delete_comment"
	ActionBlockUser     ModerationActionType = "block_user"
	ActionUnblockUser   ModerationActionType = "unblock_user"
	ActionDeleteUser    ModerationActionType = "delete_user"
	ActionChangeRole    ModerationActionType = "change_role"
	ActionReviewReport  ModerationActionType = "review_report"
	ActionCreateUser    ModerationActionType = "create_user"
	ActionUpdateUser    ModerationActionType = "update_user"
)

// ModerationAction is one row of the admin audit trail, stored in PostgreSQL.
type ModerationAction struct {
	ID         uint                 `json:"id" gorm:"primaryKey"`
	AdminID    string               `json:"adminId" gorm:"type:varchar(24);not null;index"`
	Action     ModerationActionType `json:"action" gorm:"type:varchar(32);not null"`
	TargetType string               `json:"targetType" gorm:"type:varchar(16);not null"`
	TargetID   string               `json:"targetId" gorm:"type:varchar(64);not null;index"`
	Reason     string               `json:"reason" gorm:"type:text"`
	CreatedAt  time.Time            `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (ModerationAction) TableName() string {
	return "moderation_actions"
}
