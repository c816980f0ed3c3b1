package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/petconnect/backend/internal/handlers"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories/memory"
	"github.com/anonto42/petconnect/backend/pkg/config"
	"github.com/anonto42/petconnect/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t   *testing.T
	e   *echo.Echo
	svc *Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		APIPrefix:     "/api",
		CORSOrigin:    "*",
		BodyLimit:     "1M",
		JWTSecret:     "router-test-secret",
		JWTExpiresIn:  time.Hour,
		BcryptCost:    4,
		AuthRateLimit: 1000,
		AuthRateBurst: 1000,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewServices(cfg, MemoryStores(memory.NewStore()), nil)
	e := echo.New()
	v := validators.NewValidator()
	e.Validator = v
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(v)
	config.SetupMiddleware(e, cfg, logger)
	SetupRoutes(e, cfg, svc, nil)
	return &testServer{t: t, e: e, svc: svc}
}

func (s *testServer) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type postItem struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	LikesCount int    `json:"likesCount"`
	IsLiked    bool   `json:"isLiked"`
}

type postPage struct {
	Items      []postItem        `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

func (s *testServer) register(username string) authBody {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Secret123",
		"fullName": username,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[authBody](s.t, rec)
}

func TestFeedLikeScenario(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")

	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[authBody](t, rec).Token
	require.NotEmpty(t, token)

	rec = s.do(http.MethodPost, "/api/posts", token, map[string]string{"content": "Walk time", "category": "dog"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[postItem](t, rec)

	feed := decode[postPage](t, s.do(http.MethodGet, "/api/posts/feed?category=dog", "", nil))
	require.Len(t, feed.Items, 1)
	assert.Equal(t, created.ID, feed.Items[0].ID)
	assert.Equal(t, 0, feed.Items[0].LikesCount)
	assert.False(t, feed.Items[0].IsLiked)

	rec = s.do(http.MethodPost, "/api/posts/"+created.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	like := decode[models.LikeResult](t, rec)
	assert.True(t, like.Liked)
	assert.Equal(t, 1, like.LikesCount)

	feed = decode[postPage](t, s.do(http.MethodGet, "/api/posts/feed?category=dog", token, nil))
	require.Len(t, feed.Items, 1)
	assert.True(t, feed.Items[0].IsLiked)
	assert.Equal(t, 1, feed.Items[0].LikesCount)

	other := decode[postPage](t, s.do(http.MethodGet, "/api/posts/feed?category=cat", token, nil))
	assert.Empty(t, other.Items)
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"duplicate username", http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alice", "email": "new@example.com", "password": "Secret123", "fullName": "A"}, http.StatusConflict},
		{"bad credentials", http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "Nope12345"}, http.StatusUnauthorized},
		{"missing token", http.MethodGet, "/api/users/me", "", nil, http.StatusUnauthorized},
		{"garbage token on required", http.MethodGet, "/api/users/me", "garbage", nil, http.StatusUnauthorized},
		{"garbage token on optional", http.MethodGet, "/api/posts/feed", "garbage", nil, http.StatusOK},
		{"invalid id", http.MethodGet, "/api/posts/not-an-id", "", nil, http.StatusBadRequest},
		{"unknown post", http.MethodGet, "/api/posts/0123456789abcdef01234567", "", nil, http.StatusNotFound},
		{"limit too large", http.MethodGet, "/api/posts/feed?limit=101", "", nil, http.StatusBadRequest},
		{"page not a number", http.MethodGet, "/api/posts/feed?page=two", "", nil, http.StatusBadRequest},
		{"huge page on feed", http.MethodGet, "/api/posts/feed?page=9223372036854775807&limit=100", "", nil, http.StatusBadRequest},
		{"huge page on search", http.MethodGet, "/api/search/users?q=a&page=9223372036854775807&limit=100", "", nil, http.StatusBadRequest},
		{"bad category", http.MethodGet, "/api/posts/feed?category=horse", "", nil, http.StatusBadRequest},
		{"self follow", http.MethodPost, "/api/users/" + alice.User.ID + "/follow", alice.Token, nil, http.StatusBadRequest},
		{"non-admin", http.MethodGet, "/api/admin/statistics", alice.Token, nil, http.StatusForbidden},
		{"anonymous admin", http.MethodGet, "/api/admin/statistics", "", nil, http.StatusUnauthorized},
		{"empty search", http.MethodGet, "/api/search/posts?q=", "", nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/nothing-here", "", nil, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(tc.method, tc.path, tc.token, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.status >= http.StatusBadRequest {
				body := decode[handlers.ErrorResponse](t, rec)
				assert.Equal(t, tc.status, body.StatusCode)
				assert.Equal(t, http.StatusText(tc.status), body.Error)
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestValidationDetailsAreTranslated(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"username": "al!", "email": "x@example.com", "password": "Secret123", "fullName": "Al"}

	rec := s.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	en := decode[handlers.ErrorResponse](t, rec)
	assert.Equal(t, "validation failed", en.Message)
	require.NotEmpty(t, en.Details)

	rec = s.do(http.MethodPost, "/api/auth/register", "", body, "Accept-Language", "es")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	es := decode[handlers.ErrorResponse](t, rec)
	require.Len(t, es.Details, len(en.Details))
	assert.NotEqual(t, en.Details, es.Details)
}

func TestFollowAndProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/api/users/"+bob.User.ID+"/follow", alice.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := decode[models.FollowResult](t, rec)
		assert.Equal(t, 1, res.FollowersCount)
	}

	profile := decode[map[string]interface{}](t, s.do(http.MethodGet, "/api/users/"+bob.User.ID, alice.Token, nil))
	assert.Equal(t, true, profile["isFollowing"])
	assert.NotContains(t, profile, "email")

	me := decode[map[string]interface{}](t, s.do(http.MethodGet, "/api/users/me", bob.Token, nil))
	assert.Equal(t, "bob@example.com", me["email"])
	assert.EqualValues(t, 1, me["followersCount"])

	followers := decode[struct {
		Items []models.UserCompact `json:"items"`
	}](t, s.do(http.MethodGet, "/api/users/"+bob.User.ID+"/followers", "", nil))
	require.Len(t, followers.Items, 1)
	assert.Equal(t, "alice", followers.Items[0].Username)

	rec := s.do(http.MethodDelete, "/api/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[models.FollowResult](t, rec).FollowersCount)
}

func TestAdminFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	require.NoError(t, s.svc.Accounts.SeedAdmin(context.Background(), config.AdminSeed{
		Create: true, Email: "root@example.com", Username: "root", Password: "Secret123", FullName: "Root",
	}))
	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "root@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	admin := decode[authBody](t, rec)

	rec = s.do(http.MethodPost, "/api/posts", alice.Token, map[string]string{"content": "spam spam", "category": "cat"})
	require.Equal(t, http.StatusCreated, rec.Code)
	post := decode[postItem](t, rec)
	rec = s.do(http.MethodPost, "/api/posts/"+post.ID+"/report", admin.Token, map[string]string{"reason": "spam"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	reports := decode[struct {
		Items []models.ReportRow `json:"items"`
	}](t, s.do(http.MethodGet, "/api/admin/reports?status=pending", admin.Token, nil))
	require.Len(t, reports.Items, 1)

	rec = s.do(http.MethodPut, "/api/admin/reports/"+reports.Items[0].ID, admin.Token, map[string]string{"status": "dismissed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/admin/users/"+alice.User.ID+"/block", admin.Token, map[string]interface{}{"blocked": true, "reason": "spam"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/users/me", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodDelete, "/api/admin/posts/"+post.ID, admin.Token, map[string]string{"reason": "spam"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stats := decode[models.Statistics](t, s.do(http.MethodGet, "/api/admin/statistics", admin.Token, nil))
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(0), stats.TotalPosts)

	log := decode[struct {
		Items []models.ModerationAction `json:"items"`
	}](t, s.do(http.MethodGet, "/api/admin/moderation-log", admin.Token, nil))
	assert.Len(t, log.Items, 3)
}

func TestCategoriesRequireAdminToWrite(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	rec := s.do(http.MethodPost, "/api/categories", alice.Token, map[string]string{"name": "dog", "displayName": "Dogs"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]interface{}](t, rec)["status"])
}
