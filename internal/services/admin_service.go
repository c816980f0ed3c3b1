package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/metrics"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const popularPetsLimit = 10

// AdminRepos groups the stores the moderation service works over.
type AdminRepos struct {
	Users      repositories.UserRepository
	Pets       repositories.PetRepository
	Posts      repositories.PostRepository
	Comments   repositories.CommentRepository
	Moderation repositories.ModerationRepository
	AuditLog   repositories.ModerationLogRepository
}

type AdminService struct {
	repos    AdminRepos
	accounts *AccountService
	now      func() time.Time
}

func NewAdminService(repos AdminRepos, accounts *AccountService) *AdminService {
	return &AdminService{repos: repos, accounts: accounts, now: time.Now}
}

// audit writes one moderation log entry. A failed write is logged and otherwise ignored.
func (s *AdminService) audit(ctx context.Context, admin models.Principal, action models.ModerationActionType, targetType, targetID, reason string) {
	metrics.RecordModerationAction(string(action))
	entry := &models.ModerationAction{
		AdminID:    admin.UserID.Hex(),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		CreatedAt:  s.now(),
	}
	if err := s.repos.AuditLog.Record(ctx, entry); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"admin_id": entry.AdminID,
			"action":   action,
			"target":   targetID,
		}).Error("failed to record moderation action")
	}
}

func (s *AdminService) ListReports(ctx context.Context, status models.ReportStatus, q models.PageQuery) (models.Page[models.ReportRow], error) {
	rows, total, err := s.repos.Moderation.ListReports(ctx, status, q.Skip(), int64(q.Limit))
	if err != nil {
		return models.Page[models.ReportRow]{}, storeErr(err, "reports")
	}
	return models.NewPage(rows, q, total), nil
}

// parseReportID splits "<targetId>-<index>".
func parseReportID(reportID string) (primitive.ObjectID, int, error) {
	hex, idx, ok := strings.Cut(reportID, "-")
	if !ok {
		return primitive.NilObjectID, 0, apperrors.Validationf("invalid report id")
	}
	target, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, 0, apperrors.Validationf("invalid report id")
	}
	index, err := strconv.Atoi(idx)
	if err != nil || index < 0 {
		return primitive.NilObjectID, 0, apperrors.Validationf("invalid report id")
	}
	return target, index, nil
}

// ReviewReport sets the status of one report, looked up on posts first and then comments.
func (s *AdminService) ReviewReport(ctx context.Context, admin models.Principal, reportID string, req models.ReviewReportRequest) error {
	target, index, err := parseReportID(reportID)
	if err != nil {
		return err
	}
	now := s.now()
	targetType := string(models.TargetPost)
	err = s.repos.Posts.SetReportStatus(ctx, target, index, req.Status, now)
	if errors.Is(err, repositories.ErrNotFound) {
		targetType = string(models.TargetComment)
		err = s.repos.Comments.SetReportStatus(ctx, target, index, req.Status, now)
	}
	if err != nil {
		return storeErr(err, "report")
	}
	s.audit(ctx, admin, models.ActionReviewReport, targetType, reportID, strings.TrimSpace(string(req.Status)+" "+req.Reason))
	return nil
}

// DeletePost removes a post and its comments permanently, active or not.
func (s *AdminService) DeletePost(ctx context.Context, admin models.Principal, id primitive.ObjectID, reason string) error {
	if err := s.repos.Posts.DeletePost(ctx, id); err != nil {
		return storeErr(err, "post")
	}
	if _, err := s.repos.Comments.DeleteByPost(ctx, id); err != nil {
		log.WithError(err).WithField("post_id", id.Hex()).Warn("failed to delete comments of removed post")
	}
	s.audit(ctx, admin, models.ActionDeletePost, string(models.TargetPost), id.Hex(), reason)
	return nil
}

// DeleteComment removes a comment permanently and drops it from its post.
func (s *AdminService) DeleteComment(ctx context.Context, admin models.Principal, id primitive.ObjectID, reason string) error {
	comment, err := s.repos.Comments.GetCommentByID(ctx, id)
	if err != nil {
		return storeErr(err, "comment")
	}
	if err := s.repos.Comments.DeleteComment(ctx, id); err != nil {
		return storeErr(err, "comment")
	}
	if err := s.repos.Posts.RemoveComment(ctx, comment.Post, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return storeErr(err, "post")
	}
	s.audit(ctx, admin, models.ActionDeleteComment, string(models.TargetComment), id.Hex(), reason)
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context, q models.PageQuery) (models.Page[models.User], error) {
	users, total, err := s.repos.Users.ListUsers(ctx, q.Skip(), int64(q.Limit))
	if err != nil {
		return models.Page[models.User]{}, storeErr(err, "users")
	}
	return models.NewPage(users, q, total), nil
}

func (s *AdminService) CreateUser(ctx context.Context, admin models.Principal, req models.AdminCreateUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
		IsActive: true,
	}
	if err := s.accounts.createAccount(ctx, user, req.Password); err != nil {
		return nil, err
	}
	s.audit(ctx, admin, models.ActionCreateUser, "user", user.ID.Hex(), "")
	return user, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, admin models.Principal, id primitive.ObjectID, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.repos.Users.UpdateUser(ctx, id, models.UserPatch{
		FullName:       req.FullName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return nil, storeErr(err, "user")
	}
	s.audit(ctx, admin, models.ActionUpdateUser, "user", id.Hex(), "")
	return user, nil
}

// DeleteUser removes an account; its id disappears from every follow list.
func (s *AdminService) DeleteUser(ctx context.Context, admin models.Principal, id primitive.ObjectID) error {
	if admin.UserID == id {
		return apperrors.Validationf("administrators cannot delete their own account")
	}
	if err := s.repos.Users.DeleteUser(ctx, id); err != nil {
		return storeErr(err, "user")
	}
	s.audit(ctx, admin, models.ActionDeleteUser, "user", id.Hex(), "")
	return nil
}

func (s *AdminService) BlockUser(ctx context.Context, admin models.Principal, id primitive.ObjectID, blocked bool, reason string) (*models.User, error) {
	if admin.UserID == id && blocked {
		return nil, apperrors.Validationf("administrators cannot block their own account")
	}
	active := !blocked
	user, err := s.repos.Users.UpdateUser(ctx, id, models.UserPatch{IsActive: &active})
	if err != nil {
		return nil, storeErr(err, "user")
	}
	action := models.ActionUnblockUser
	if blocked {
		action = models.ActionBlockUser
	}
	s.audit(ctx, admin, action, "user", id.Hex(), reason)
	return user, nil
}

func (s *AdminService) ChangeRole(ctx context.Context, admin models.Principal, id primitive.ObjectID, role models.Role) (*models.User, error) {
	user, err := s.repos.Users.UpdateUser(ctx, id, models.UserPatch{Role: &role})
	if err != nil {
		return nil, storeErr(err, "user")
	}
	s.audit(ctx, admin, models.ActionChangeRole, "user", id.Hex(), string(role))
	return user, nil
}

func (s *AdminService) Statistics(ctx context.Context) (*models.Statistics, error) {
	var (
		stats models.Statistics
		err   error
	)
	if stats.TotalUsers, err = s.repos.Users.CountUsers(ctx, false); err != nil {
		return nil, storeErr(err, "users")
	}
	if stats.ActiveUsers, err = s.repos.Users.CountUsers(ctx, true); err != nil {
		return nil, storeErr(err, "users")
	}
	if stats.TotalPosts, err = s.repos.Posts.CountPosts(ctx, models.PostFilter{IncludeInactive: true}); err != nil {
		return nil, storeErr(err, "posts")
	}
	if stats.TotalComments, err = s.repos.Comments.CountComments(ctx); err != nil {
		return nil, storeErr(err, "comments")
	}
	if stats.TotalPets, err = s.repos.Pets.CountPets(ctx); err != nil {
		return nil, storeErr(err, "pets")
	}
	if stats.PostsByCategory, err = s.repos.Moderation.PostsByCategory(ctx); err != nil {
		return nil, storeErr(err, "posts")
	}
	if stats.MostPopularPets, err = s.repos.Moderation.MostPopularPets(ctx, popularPetsLimit); err != nil {
		return nil, storeErr(err, "pets")
	}
	if stats.ReportedPosts, err = s.repos.Moderation.CountReportedPosts(ctx); err != nil {
		return nil, storeErr(err, "posts")
	}
	if stats.PostsByCategory == nil {
		stats.PostsByCategory = []models.CategoryCount{}
	}
	if stats.MostPopularPets == nil {
		stats.MostPopularPets = []models.PetPopularity{}
	}
	return &stats, nil
}

func (s *AdminService) ModerationLog(ctx context.Context, q models.PageQuery) (models.Page[models.ModerationAction], error) {
	actions, total, err := s.repos.AuditLog.List(ctx, int(q.Skip()), q.Limit)
	if err != nil {
		return models.Page[models.ModerationAction]{}, storeErr(err, "moderation log")
	}
	return models.NewPage(actions, q, total), nil
}
