package validators

import (
	"testing"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestRules(t *testing.T) {
	v := NewValidator()

	ok := models.RegisterRequest{Username: "alice_1", Email: "alice@x.com", Password: "Secret123", FullName: "Alice"}
	assert.NoError(t, v.Validate(ok))

	cases := map[string]models.RegisterRequest{
		"short username": {Username: "al", Email: "alice@x.com", Password: "Secret123", FullName: "Alice"},
		"bad username":   {Username: "alice!", Email: "alice@x.com", Password: "Secret123", FullName: "Alice"},
		"bad email":      {Username: "alice", Email: "alice", Password: "Secret123", FullName: "Alice"},
		"weak password":  {Username: "alice", Email: "alice@x.com", Password: "secret123", FullName: "Alice"},
		"no full name":   {Username: "alice", Email: "alice@x.com", Password: "Secret123"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, v.Validate(req))
		})
	}
}

func TestSpeciesAndObjectID(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(models.CreatePostRequest{Content: "hi", Category: "dog"}))
	assert.Error(t, v.Validate(models.CreatePostRequest{Content: "hi", Category: "horse"}))
	assert.Error(t, v.Validate(models.CreatePostRequest{Content: "hi", Category: "dog", Pet: "nope"}))
	assert.Error(t, v.Validate(models.CreatePostRequest{
		Content: "hi", Category: "dog", Media: []models.MediaItem{{Type: "gif", URL: "x"}},
	}))
}

func TestTranslate(t *testing.T) {
	v := NewValidator()
	err := v.Validate(models.RegisterRequest{Username: "alice!", Email: "alice@x.com", Password: "Secret123", FullName: "Alice"})
	require.Error(t, err)

	en := v.Translate(err, "")
	require.Len(t, en, 1)
	assert.Equal(t, "username may only contain letters, numbers and underscores", en[0])

	es := v.Translate(err, "es-ES,es;q=0.9")
	require.Len(t, es, 1)
	assert.Equal(t, "username solo puede contener letras, números y guiones bajos", es[0])

	assert.Nil(t, v.Translate(assert.AnError, "en"))
}

func TestParseLanguages(t *testing.T) {
	assert.Equal(t, []string{"es-ES", "es", "en", "en"}, parseLanguages("es-ES, en;q=0.8"))
	assert.Equal(t, []string{"en"}, parseLanguages(""))
}
