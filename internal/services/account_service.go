// Package services holds the domain logic behind the HTTP handlers.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/auth"
	"github.com/anonto42/petconnect/backend/internal/metrics"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidCredentials = apperrors.New(apperrors.Unauthorized, "invalid credentials")
	ErrAccountInactive    = apperrors.New(apperrors.Unauthorized, "account is inactive")
	ErrWrongPassword      = apperrors.New(apperrors.Validation, "current password is incorrect")
	ErrSelfFollow         = apperrors.New(apperrors.Validation, "you cannot follow yourself")
	ErrAccountTaken       = apperrors.New(apperrors.Conflict, "username or email already in use")
)

// FederatedIdentity is the verified subject of an external identity token.
type FederatedIdentity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier checks identity tokens issued by an external provider.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FederatedIdentity, error)
}

type AccountService struct {
	users    repositories.UserRepository
	pets     repositories.PetRepository
	posts    repositories.PostRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	verifier IDTokenVerifier
}

func NewAccountService(users repositories.UserRepository, pets repositories.PetRepository, posts repositories.PostRepository,
	hasher *auth.PasswordHasher, tokens *auth.TokenManager) *AccountService {
	return &AccountService{users: users, pets: pets, posts: posts, hasher: hasher, tokens: tokens}
}

// WithVerifier enables federated sign-in.
func (s *AccountService) WithVerifier(v IDTokenVerifier) *AccountService {
	s.verifier = v
	return s
}

func (s *AccountService) FederatedEnabled() bool {
	return s.verifier != nil
}

// createAccount persists a new account after checking both unique fields.
func (s *AccountService) createAccount(ctx context.Context, user *models.User, password string) error {
	if _, err := s.users.FindByEmailOrUsername(ctx, user.Email, user.Username); err == nil {
		return ErrAccountTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return storeErr(err, "user")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "could not hash password", err)
	}
	user.Password = hash
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrAccountTaken
		}
		return storeErr(err, "user")
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: strings.TrimSpace(req.FullName),
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.createAccount(ctx, user, req.Password); err != nil {
		return nil, err
	}
	metrics.RecordAccountEvent("register")
	return s.authResponse(user, "user registered successfully")
}

func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.RecordAccountEvent("login_failed")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr(err, "user")
	}

	ok, err := s.hasher.Verify(user.Password, req.Password)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID.Hex()).Warn("stored password hash is unusable")
	}
	if !ok {
		metrics.RecordAccountEvent("login_failed")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	metrics.RecordAccountEvent("login")
	return s.authResponse(user, "login successful")
}

// FederatedLogin exchanges a verified external identity token for a local token,
// linking or creating the account as needed.
func (s *AccountService) FederatedLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.verifier == nil {
		return nil, apperrors.NotFoundf("federated sign-in is not configured")
	}
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unauthorized, "invalid identity token", err)
	}
	if identity.Email == "" {
		return nil, apperrors.Validationf("identity token carries no email")
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	if errors.Is(err, repositories.ErrNotFound) {
		user, err = s.linkOrCreate(ctx, identity)
	}
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	metrics.RecordAccountEvent("federated_login")
	return s.authResponse(user, "login successful")
}

func (s *AccountService) linkOrCreate(ctx context.Context, identity *FederatedIdentity) (*models.User, error) {
	email := strings.ToLower(identity.Email)
	user, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return s.users.UpdateUser(ctx, user.ID, models.UserPatch{FirebaseUID: &identity.UID})
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	username, err := s.availableUsername(ctx, email)
	if err != nil {
		return nil, err
	}
	fullName := identity.Name
	if fullName == "" {
		fullName = username
	}
	hash, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Username:       username,
		Email:          email,
		Password:       hash,
		FullName:       fullName,
		ProfilePicture: identity.Picture,
		Role:           models.RoleUser,
		IsActive:       true,
		FirebaseUID:    identity.UID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	metrics.RecordAccountEvent("register")
	return user, nil
}

// availableUsername derives a username from the local part of email, adding a
// numeric suffix until it is free.
func (s *AccountService) availableUsername(ctx context.Context, email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	base := b.String()
	for len(base) < 3 {
		base += "_"
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for i := 1; i < 1000; i++ {
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", apperrors.Conflictf("could not derive a free username")
}

func (s *AccountService) authResponse(user *models.User, message string) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "could not issue token", err)
	}
	return &models.AuthResponse{Message: message, User: user, Token: token}, nil
}

// Profile returns the account id as seen by viewer. Email is only shown to the
// owner and administrators; inactive accounts are hidden from everyone else.
func (s *AccountService) Profile(ctx context.Context, id primitive.ObjectID, viewer *models.Principal) (*models.ProfileView, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	self := viewer != nil && viewer.UserID == id
	privileged := self || (viewer != nil && viewer.IsAdmin())
	if !user.IsActive && !privileged {
		return nil, apperrors.NotFoundf("user not found")
	}

	pets, err := s.pets.GetPetsByIDs(ctx, user.Pets)
	if err != nil {
		return nil, storeErr(err, "pets")
	}
	postsCount, err := s.posts.CountPosts(ctx, models.PostFilter{Authors: []primitive.ObjectID{id}})
	if err != nil {
		return nil, storeErr(err, "posts")
	}

	view := &models.ProfileView{
		ID:             user.ID,
		Username:       user.Username,
		FullName:       user.FullName,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		Role:           user.Role,
		IsActive:       user.IsActive,
		Pets:           make([]models.PetCompact, 0, len(pets)),
		FollowersCount: len(user.Followers),
		FollowingCount: len(user.Following),
		PostsCount:     postsCount,
		CreatedAt:      user.CreatedAt,
	}
	for i := range pets {
		view.Pets = append(view.Pets, pets[i].ToCompact())
	}
	if privileged {
		view.Email = user.Email
	}
	if viewer != nil && !self {
		following := models.ContainsID(user.Followers, viewer.UserID)
		view.IsFollowing = &following
	}
	return view, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, p models.Principal, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.UpdateUser(ctx, p.UserID, models.UserPatch{
		FullName:       req.FullName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return user, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, p models.Principal, req models.ChangePasswordRequest) error {
	user, err := s.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		return storeErr(err, "user")
	}
	ok, err := s.hasher.Verify(user.Password, req.CurrentPassword)
	if err != nil || !ok {
		return ErrWrongPassword
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "could not hash password", err)
	}
	_, err = s.users.UpdateUser(ctx, p.UserID, models.UserPatch{Password: &hash})
	return storeErr(err, "user")
}

// SetFollow makes p follow (or stop following) target. Repeating either is a no-op.
func (s *AccountService) SetFollow(ctx context.Context, p models.Principal, target primitive.ObjectID, follow bool) (*models.FollowResult, error) {
	if p.UserID == target {
		return nil, ErrSelfFollow
	}
	t, err := s.users.GetUserByID(ctx, target)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if !t.IsActive && follow {
		return nil, apperrors.NotFoundf("user not found")
	}

	count, err := s.users.SetFollow(ctx, p.UserID, target, follow)
	if err != nil {
		return nil, storeErr(err, "user")
	}

	res := &models.FollowResult{Following: follow, FollowersCount: count}
	if follow {
		res.Message = "user followed"
		metrics.RecordSocialEvent("follow")
	} else {
		res.Message = "user unfollowed"
		metrics.RecordSocialEvent("unfollow")
	}
	return res, nil
}

// Connections pages through an account's followers (followers=true) or the accounts it follows.
func (s *AccountService) Connections(ctx context.Context, id primitive.ObjectID, followers bool, q models.PageQuery) (models.Page[models.UserCompact], error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return models.Page[models.UserCompact]{}, storeErr(err, "user")
	}
	ids := user.Following
	if followers {
		ids = user.Followers
	}

	pageIDs := window(ids, q.Skip(), int64(q.Limit))
	users, err := s.users.GetUsersByIDs(ctx, pageIDs)
	if err != nil {
		return models.Page[models.UserCompact]{}, storeErr(err, "users")
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	items := make([]models.UserCompact, 0, len(pageIDs))
	for _, uid := range pageIDs {
		if u, ok := byID[uid]; ok {
			items = append(items, u.ToCompact())
		}
	}
	return models.NewPage(items, q, int64(len(ids))), nil
}

func window[T any](items []T, skip, limit int64) []T {
	n := int64(len(items))
	if skip < 0 || limit < 1 || skip >= n {
		return nil
	}
	end := skip + limit
	if end > n {
		end = n
	}
	return items[skip:end]
}
