package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	token *auth.Token
	err   error
}

func (s stubClient) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return s.token, s.err
}

func TestVerifierMapsClaims(t *testing.T) {
	v := NewVerifier(stubClient{token: &auth.Token{
		UID: "fb-123",
		Claims: map[string]interface{}{
			"email":   "alice@example.com",
			"name":    "Alice",
			"picture": 42,
		},
	}})

	id, err := v.VerifyIDToken(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "fb-123", id.UID)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, "Alice", id.Name)
	assert.Empty(t, id.Picture)
}

func TestVerifierPropagatesErrors(t *testing.T) {
	v := NewVerifier(stubClient{err: errors.New("expired")})
	_, err := v.VerifyIDToken(context.Background(), "token")
	assert.EqualError(t, err, "expired")
}

func TestInitFirebaseMissingCredentials(t *testing.T) {
	_, err := InitFirebase(context.Background(), "")
	assert.Error(t, err)

	_, err = InitFirebase(context.Background(), "/nonexistent/credentials.json")
	assert.ErrorContains(t, err, "not found")
}
