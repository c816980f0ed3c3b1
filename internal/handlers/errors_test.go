package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, method string, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/x", nil), rec)
	NewHTTPErrorHandler(nil)(err, c)

	var body ErrorResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestErrorKindsMapToStatus(t *testing.T) {
	cases := map[apperrors.Kind]int{
		apperrors.NotFound:     http.StatusNotFound,
		apperrors.Conflict:     http.StatusConflict,
		apperrors.Forbidden:    http.StatusForbidden,
		apperrors.Unauthorized: http.StatusUnauthorized,
		apperrors.Validation:   http.StatusBadRequest,
	}
	for kind, status := range cases {
		t.Run(kind.String(), func(t *testing.T) {
			rec, body := serveError(t, http.MethodGet, apperrors.New(kind, "boom"))
			assert.Equal(t, status, rec.Code)
			assert.Equal(t, status, body.StatusCode)
			assert.Equal(t, "boom", body.Message)
		})
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	rec, body := serveError(t, http.MethodGet, apperrors.Wrap(apperrors.Internal, "db exploded", errors.New("dial tcp")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body.Message)

	rec, body = serveError(t, http.MethodGet, errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body.Message)
}

func TestEchoErrorsPassThrough(t *testing.T) {
	rec, body := serveError(t, http.MethodGet, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request Entity Too Large", body.Message)
}

func TestHeadWritesNoBody(t *testing.T) {
	rec, _ := serveError(t, http.MethodHead, apperrors.NotFoundf("gone"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestCommittedResponseIsLeftAlone(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	require.NoError(t, c.NoContent(http.StatusAccepted))

	NewHTTPErrorHandler(nil)(apperrors.NotFoundf("late"), c)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestPageQuery(t *testing.T) {
	e := echo.New()
	ctx := func(query string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, "/x?"+query, nil), httptest.NewRecorder())
	}

	q, err := pageQuery(ctx(""))
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)

	q, err = pageQuery(ctx("page=3&limit=5"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), q.Skip())

	q, err = pageQuery(ctx("page=1000000&limit=100"))
	require.NoError(t, err)
	assert.Equal(t, int64(99999900), q.Skip())

	for _, bad := range []string{"page=0", "page=x", "limit=0", "limit=101", "limit=1.5", "page=1000001", "page=9223372036854775807&limit=100"} {
		_, err := pageQuery(ctx(bad))
		assert.True(t, apperrors.IsKind(err, apperrors.Validation), bad)
	}
}
