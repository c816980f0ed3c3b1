package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestModerationLogRecord(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewPostgresModerationLogRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "moderation_actions"`)).
		WithArgs("65f000000000000000000001", models.ActionDeletePost, "post", "65f000000000000000000002", "spam", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	action := &models.ModerationAction{
		AdminID:    "65f000000000000000000001",
		Action:     models.ActionDeletePost,
		TargetType: "post",
		TargetID:   "65f000000000000000000002",
		Reason:     "spam",
	}
	require.NoError(t, repo.Record(context.Background(), action))
	assert.Equal(t, uint(7), action.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModerationLogList(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewPostgresModerationLogRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "moderation_actions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "moderation_actions" ORDER BY created_at DESC,id DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "admin_id", "action", "target_type", "target_id", "reason", "created_at"}).
			AddRow(2, "a", "block_user", "user", "u1", "", now).
			AddRow(1, "a", "delete_post", "post", "p1", "spam", now.Add(-time.Minute)))

	actions, total, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionBlockUser, actions[0].Action)
	assert.Equal(t, "spam", actions[1].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}
