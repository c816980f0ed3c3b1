package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("loading post: %w", NotFoundf("post %s not found", "abc"))
	assert.Equal(t, NotFound, KindOf(err))
	assert.True(t, IsKind(err, NotFound))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, Internal))
}

func TestSentinelMatching(t *testing.T) {
	sentinel := New(Unauthorized, "invalid credentials")
	wrapped := fmt.Errorf("login: %w", New(Unauthorized, "invalid credentials"))
	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, New(Unauthorized, "account is inactive"))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(Internal, "could not load user", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "could not load user: connection reset", err.Error())
}
