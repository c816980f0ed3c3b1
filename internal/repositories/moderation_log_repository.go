package repositories

import (
	"context"

	"github.com/anonto42/petconnect/backend/internal/models"
	"gorm.io/gorm"
)

// ModerationLogRepository stores the audit trail of admin actions.
type ModerationLogRepository interface {
	Record(ctx context.Context, action *models.ModerationAction) error
	List(ctx context.Context, skip, limit int) ([]models.ModerationAction, int64, error)
}

// PostgresModerationLogRepository implements ModerationLogRepository with GORM
type PostgresModerationLogRepository struct {
	db *gorm.DB
}

func NewPostgresModerationLogRepository(db *gorm.DB) *PostgresModerationLogRepository {
	return &PostgresModerationLogRepository{db: db}
}

// Migrate creates the moderation_actions table when missing.
func (r *PostgresModerationLogRepository) Migrate() error {
	return r.db.AutoMigrate(&models.ModerationAction{})
}

func (r *PostgresModerationLogRepository) Record(ctx context.Context, action *models.ModerationAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *PostgresModerationLogRepository) List(ctx context.Context, skip, limit int) ([]models.ModerationAction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ModerationAction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var actions []models.ModerationAction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&actions).Error
	if err != nil {
		return nil, 0, err
	}
	return actions, total, nil
}
