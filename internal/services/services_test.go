package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/auth"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/anonto42/petconnect/backend/internal/repositories/memory"
	"github.com/anonto42/petconnect/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Secret123"

type fixture struct {
	store    *memory.Store
	tokens   *auth.TokenManager
	accounts *AccountService
	pets     *PetService
	posts    *PostService
	comments *CommentService
	admin    *AdminService
	search   *SearchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	accounts := NewAccountService(s.Users(), s.Pets(), s.Posts(), auth.NewPasswordHasher(bcrypt.MinCost), tokens)
	posts := NewPostService(s.Posts(), s.Users(), s.Pets())
	return &fixture{
		store:    s,
		tokens:   tokens,
		accounts: accounts,
		pets:     NewPetService(s.Pets(), s.Users()),
		posts:    posts,
		comments: NewCommentService(s.Comments(), s.Posts(), s.Users(), s.Pets()),
		admin: NewAdminService(AdminRepos{
			Users:      s.Users(),
			Pets:       s.Pets(),
			Posts:      s.Posts(),
			Comments:   s.Comments(),
			Moderation: s.Moderation(),
			AuditLog:   s.ModerationLog(),
		}, accounts),
		search: NewSearchService(s.Users(), posts),
	}
}

func (f *fixture) register(t *testing.T, username string) models.Principal {
	t.Helper()
	resp, err := f.accounts.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
		FullName: username + " Tester",
	})
	require.NoError(t, err)
	return models.Principal{UserID: resp.User.ID, Email: resp.User.Email, Role: resp.User.Role}
}

func (f *fixture) promote(t *testing.T, p models.Principal) models.Principal {
	t.Helper()
	role := models.RoleAdmin
	_, err := f.store.Users().UpdateUser(context.Background(), p.UserID, models.UserPatch{Role: &role})
	require.NoError(t, err)
	p.Role = models.RoleAdmin
	return p
}

func (f *fixture) post(t *testing.T, p models.Principal, content string) *models.PostView {
	t.Helper()
	view, err := f.posts.Create(context.Background(), p, models.CreatePostRequest{Content: content, Category: "dog"})
	require.NoError(t, err)
	return view
}

func TestRegisterRejectsTakenUsernameOrEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.accounts.Register(ctx, models.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: testPassword, FullName: "Other",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))

	_, err = f.accounts.Register(ctx, models.RegisterRequest{
		Username: "alice2", Email: "ALICE@example.com", Password: testPassword, FullName: "Other",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	resp, err := f.accounts.Register(context.Background(), models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: testPassword, FullName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.True(t, resp.User.IsActive)
	assert.NotEqual(t, testPassword, resp.User.Password)

	claims, err := f.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.Hex(), claims.Subject)
}

func TestLoginErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.accounts.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.accounts.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "Wrong1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := f.accounts.Login(ctx, models.LoginRequest{Email: "Alice@Example.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, resp.User.ID)

	inactive := false
	_, err = f.store.Users().UpdateUser(ctx, alice.UserID, models.UserPatch{IsActive: &inactive})
	require.NoError(t, err)
	_, err = f.accounts.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	err := f.accounts.ChangePassword(ctx, alice, models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "Newpass123"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, f.accounts.ChangePassword(ctx, alice, models.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "Newpass123"}))
	_, err = f.accounts.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "Newpass123"})
	assert.NoError(t, err)
}

func TestFollowIsSymmetricAndIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	for i := 0; i < 2; i++ {
		res, err := f.accounts.SetFollow(ctx, alice, bob.UserID, true)
		require.NoError(t, err)
		assert.True(t, res.Following)
		assert.Equal(t, 1, res.FollowersCount)
	}

	a, err := f.store.Users().GetUserByID(ctx, alice.UserID)
	require.NoError(t, err)
	b, err := f.store.Users().GetUserByID(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob.UserID}, a.Following)
	assert.Equal(t, []primitive.ObjectID{alice.UserID}, b.Followers)

	for i := 0; i < 2; i++ {
		res, err := f.accounts.SetFollow(ctx, alice, bob.UserID, false)
		require.NoError(t, err)
		assert.False(t, res.Following)
		assert.Equal(t, 0, res.FollowersCount)
	}

	a, err = f.store.Users().GetUserByID(ctx, alice.UserID)
	require.NoError(t, err)
	b, err = f.store.Users().GetUserByID(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
}

func TestFollowRejectsSelfAndUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.accounts.SetFollow(ctx, alice, alice.UserID, true)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = f.accounts.SetFollow(ctx, alice, primitive.NewObjectID(), true)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
}

func TestConnectionsPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	star := f.register(t, "star")
	for i := 0; i < 3; i++ {
		fan := f.register(t, fmt.Sprintf("fan%d", i))
		_, err := f.accounts.SetFollow(ctx, fan, star.UserID, true)
		require.NoError(t, err)
	}

	page, err := f.accounts.Connections(ctx, star.UserID, true, models.PageQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestProfileEmailVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	own, err := f.accounts.Profile(ctx, alice.UserID, &alice)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", own.Email)
	assert.Nil(t, own.IsFollowing)

	public, err := f.accounts.Profile(ctx, alice.UserID, &bob)
	require.NoError(t, err)
	assert.Empty(t, public.Email)
	require.NotNil(t, public.IsFollowing)
	assert.False(t, *public.IsFollowing)

	anonymous, err := f.accounts.Profile(ctx, alice.UserID, nil)
	require.NoError(t, err)
	assert.Empty(t, anonymous.Email)
	assert.Nil(t, anonymous.IsFollowing)
}

func TestToggleLikeParity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	post := f.post(t, alice, "hello")

	res, err := f.posts.ToggleLike(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.LikesCount)

	res, err = f.posts.ToggleLike(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 0, res.LikesCount)

	res, err = f.posts.ToggleLike(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.LikesCount)

	view, err := f.posts.Get(ctx, post.ID, &alice)
	require.NoError(t, err)
	assert.True(t, view.IsLiked)

	anon, err := f.posts.Get(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.False(t, anon.IsLiked)
	assert.Equal(t, 1, anon.LikesCount)
}

func TestFeedPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	var last *models.PostView
	for i := 0; i < 12; i++ {
		last = f.post(t, alice, fmt.Sprintf("post %d", i))
	}

	first, err := f.posts.Feed(ctx, "", models.PageQuery{Page: 1, Limit: 5}, nil)
	require.NoError(t, err)
	require.Len(t, first.Items, 5)
	assert.Equal(t, last.ID, first.Items[0].ID)

	second, err := f.posts.Feed(ctx, "", models.PageQuery{Page: 2, Limit: 5}, nil)
	require.NoError(t, err)
	assert.Len(t, second.Items, 5)

	third, err := f.posts.Feed(ctx, "", models.PageQuery{Page: 3, Limit: 5}, nil)
	require.NoError(t, err)
	assert.Len(t, third.Items, 2)
	assert.Equal(t, int64(12), third.Pagination.Total)
	assert.Equal(t, 3, third.Pagination.TotalPages)

	cats, err := f.posts.Feed(ctx, "cat", models.PageQuery{Page: 1, Limit: 5}, nil)
	require.NoError(t, err)
	assert.Empty(t, cats.Items)
}

func TestFollowingFeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")
	f.post(t, bob, "from bob")
	f.post(t, carol, "from carol")

	empty, err := f.posts.FollowingFeed(ctx, alice, models.PageQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	_, err = f.accounts.SetFollow(ctx, alice, bob.UserID, true)
	require.NoError(t, err)
	feed, err := f.posts.FollowingFeed(ctx, alice, models.PageQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "from bob", feed.Items[0].Content)
	require.NotNil(t, feed.Items[0].Author)
	assert.Equal(t, "bob", feed.Items[0].Author.Username)
}

func TestPostOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	root := f.promote(t, f.register(t, "root"))
	post := f.post(t, alice, "mine")

	_, err := f.posts.Update(ctx, bob, post.ID, models.UpdatePostRequest{Content: "hijacked"})
	assert.True(t, apperrors.IsKind(err, apperrors.Forbidden))
	assert.True(t, apperrors.IsKind(f.posts.Delete(ctx, bob, post.ID), apperrors.Forbidden))

	updated, err := f.posts.Update(ctx, root, post.ID, models.UpdatePostRequest{Content: "moderated"})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Content)

	require.NoError(t, f.posts.Delete(ctx, alice, post.ID))
	_, err = f.posts.Get(ctx, post.ID, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
}

func TestPostAboutSomeoneElsesPet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	pet, err := f.pets.Create(ctx, alice, models.CreatePetRequest{Name: "Rex", Type: "dog", Photos: []string{"rex.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, "rex.jpg", pet.ProfilePicture)

	_, err = f.posts.Create(ctx, bob, models.CreatePostRequest{Content: "hi", Category: "dog", Pet: pet.ID.Hex()})
	assert.True(t, apperrors.IsKind(err, apperrors.Forbidden))

	view, err := f.posts.Create(ctx, alice, models.CreatePostRequest{Content: "hi", Category: "dog", Pet: pet.ID.Hex()})
	require.NoError(t, err)
	require.NotNil(t, view.Pet)
	assert.Equal(t, "Rex", view.Pet.Name)
}

type failingPostRepo struct {
	repositories.PostRepository
}

func (failingPostRepo) AddComment(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return errors.New("write conflict")
}

func TestCommentCreateRollsBackOnPostFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	post := f.post(t, alice, "hello")

	comments := NewCommentService(f.store.Comments(), failingPostRepo{f.store.Posts()}, f.store.Users(), f.store.Pets())
	_, err := comments.Create(ctx, alice, post.ID, models.CreateCommentRequest{Content: "nice"})
	assert.True(t, apperrors.IsKind(err, apperrors.Internal))

	total, err := f.store.Comments().CountComments(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCommentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice, "hello")

	comment, err := f.comments.Create(ctx, bob, post.ID, models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	view, err := f.posts.Get(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CommentsCount)

	assert.True(t, apperrors.IsKind(f.comments.Delete(ctx, alice, comment.ID), apperrors.Forbidden))
	require.NoError(t, f.comments.Delete(ctx, bob, comment.ID))

	view, err = f.posts.Get(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CommentsCount)

	page, err := f.comments.ListByPost(ctx, post.ID, models.PageQuery{Page: 1, Limit: 10}, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestSearchEscapesQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	f.post(t, alice, "Is this (really) a dog?")
	f.post(t, alice, "Something else")

	page, err := f.search.Posts(ctx, "(REALLY)", "", models.PageQuery{Page: 1, Limit: 10}, nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = f.search.Posts(ctx, "  ", "", models.PageQuery{Page: 1, Limit: 10}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))

	users, err := f.search.Users(ctx, "ALI", models.PageQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users.Items, 1)
	assert.Equal(t, "alice", users.Items[0].Username)
}

func TestAdminReportReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	root := f.promote(t, f.register(t, "root"))
	post := f.post(t, alice, "spam")

	require.NoError(t, f.posts.Report(ctx, bob, post.ID, models.ReportRequest{Reason: "spam"}))

	pending, err := f.admin.ListReports(ctx, models.ReportPending, models.PageQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	row := pending.Items[0]
	assert.Equal(t, post.ID.Hex()+"-0", row.ID)
	assert.Equal(t, models.TargetPost, row.Type)
	require.NotNil(t, row.Reporter)
	assert.Equal(t, "bob", row.Reporter.Username)

	require.NoError(t, f.admin.ReviewReport(ctx, root, row.ID, models.ReviewReportRequest{Status: models.ReportReviewed}))

	pending, err = f.admin.ListReports(ctx, models.ReportPending, models.PageQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, pending.Items)
	reviewed, err := f.admin.ListReports(ctx, models.ReportReviewed, models.PageQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, reviewed.Items, 1)

	err = f.admin.ReviewReport(ctx, root, "not-a-report", models.ReviewReportRequest{Status: models.ReportDismissed})
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))

	log, err := f.admin.ModerationLog(ctx, models.PageQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, log.Items, 1)
	assert.Equal(t, models.ActionReviewReport, log.Items[0].Action)
	assert.Equal(t, root.UserID.Hex(), log.Items[0].AdminID)
}

func TestAdminStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	root := f.promote(t, f.register(t, "root"))

	pet, err := f.pets.Create(ctx, alice, models.CreatePetRequest{Name: "Rex", Type: "dog"})
	require.NoError(t, err)
	post, err := f.posts.Create(ctx, alice, models.CreatePostRequest{Content: "rex", Category: "dog", Pet: pet.ID.Hex()})
	require.NoError(t, err)
	_, err = f.posts.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	require.NoError(t, f.posts.Report(ctx, bob, post.ID, models.ReportRequest{Reason: "loud"}))
	_, err = f.comments.Create(ctx, bob, post.ID, models.CreateCommentRequest{Content: "woof"})
	require.NoError(t, err)

	_, err = f.admin.BlockUser(ctx, root, bob.UserID, true, "abuse")
	require.NoError(t, err)

	stats, err := f.admin.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.TotalComments)
	assert.Equal(t, int64(1), stats.TotalPets)
	assert.Equal(t, int64(1), stats.ReportedPosts)
	require.Len(t, stats.PostsByCategory, 1)
	assert.Equal(t, models.CategoryCount{Category: "dog", Count: 1}, stats.PostsByCategory[0])
	require.Len(t, stats.MostPopularPets, 1)
	assert.Equal(t, 1, int(stats.MostPopularPets[0].LikesCount))
}

func TestAdminCannotActOnSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.promote(t, f.register(t, "root"))

	assert.True(t, apperrors.IsKind(f.admin.DeleteUser(ctx, root, root.UserID), apperrors.Validation))
	_, err := f.admin.BlockUser(ctx, root, root.UserID, true, "")
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}

func TestAdminDeletePostRemovesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	root := f.promote(t, f.register(t, "root"))
	post := f.post(t, alice, "bye")
	comment, err := f.comments.Create(ctx, alice, post.ID, models.CreateCommentRequest{Content: "soon gone"})
	require.NoError(t, err)

	require.NoError(t, f.admin.DeletePost(ctx, root, post.ID, "off topic"))

	_, err = f.store.Posts().GetPostByID(ctx, post.ID)
	assert.Error(t, err)
	_, err = f.store.Comments().GetCommentByID(ctx, comment.ID)
	assert.Error(t, err)
}

func TestSeedAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := config.AdminSeed{Create: true, Email: "admin@example.com", Username: "admin", Password: testPassword, FullName: "Administrator"}

	require.NoError(t, f.accounts.SeedAdmin(ctx, seed))
	admin, err := f.store.Users().GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	require.NoError(t, f.accounts.SeedAdmin(ctx, seed))
	total, err := f.store.Users().CountUsers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	bob := f.register(t, "bob")
	require.NoError(t, f.accounts.SeedAdmin(ctx, config.AdminSeed{Create: true, Email: "bob@example.com", Username: "bob", Password: testPassword}))
	promoted, err := f.store.Users().GetUserByID(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	require.NoError(t, f.accounts.SeedAdmin(ctx, config.AdminSeed{Create: true, Email: "x@example.com"}))
	total, err = f.store.Users().CountUsers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSeedAdminNormalizesEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := config.AdminSeed{Create: true, Email: " Root@Example.com ", Username: " root ", Password: testPassword, FullName: "Root"}
	require.NoError(t, f.accounts.SeedAdmin(ctx, seed))

	for _, email := range []string{"root@example.com", "Root@Example.com"} {
		resp, err := f.accounts.Login(ctx, models.LoginRequest{Email: email, Password: testPassword})
		require.NoError(t, err, email)
		assert.Equal(t, models.RoleAdmin, resp.User.Role)
		assert.Equal(t, "root", resp.User.Username)
	}

	_, err := f.accounts.Register(ctx, models.RegisterRequest{
		Username: "imposter", Email: "root@example.com", Password: testPassword, FullName: "Imposter",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.Conflict))

	require.NoError(t, f.accounts.SeedAdmin(ctx, seed))
	total, err := f.store.Users().CountUsers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestConnectionsWindowBounds(t *testing.T) {
	ids := []int{1, 2, 3}
	assert.Equal(t, []int{2, 3}, window(ids, 1, 5))
	assert.Nil(t, window(ids, -3, 3))
	assert.Nil(t, window(ids, 3, 1))
}

type stubVerifier struct {
	identity *FederatedIdentity
	err      error
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (*FederatedIdentity, error) {
	return s.identity, s.err
}

func TestFederatedLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.FederatedLogin(ctx, "token")
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))

	f.register(t, "carol")
	f.accounts.WithVerifier(stubVerifier{identity: &FederatedIdentity{UID: "fb-1", Email: "carol.x@other.com", Name: "Carol X"}})
	resp, err := f.accounts.FederatedLogin(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "carolx", resp.User.Username)
	assert.Equal(t, "Carol X", resp.User.FullName)

	again, err := f.accounts.FederatedLogin(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)

	f.accounts.WithVerifier(stubVerifier{identity: &FederatedIdentity{UID: "fb-2", Email: "carol@example.com"}})
	linked, err := f.accounts.FederatedLogin(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "carol", linked.User.Username)

	f.accounts.WithVerifier(stubVerifier{err: errors.New("bad signature")})
	_, err = f.accounts.FederatedLogin(ctx, "token")
	assert.True(t, apperrors.IsKind(err, apperrors.Unauthorized))
}

func TestFederatedUsernameSuffix(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dave")
	f.accounts.WithVerifier(stubVerifier{identity: &FederatedIdentity{UID: "fb-3", Email: "dave@elsewhere.org"}})

	resp, err := f.accounts.FederatedLogin(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "dave1", resp.User.Username)
}
