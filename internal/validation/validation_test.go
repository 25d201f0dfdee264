package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `binding:"required"`
	Email string `binding:"omitempty,email"`
}

func TestStruct_Valid(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Struct(sample{Title: "ok"}))
	assert.Nil(t, Struct(sample{Title: "ok", Email: "a@b.com"}))
}

func TestStruct_FieldKeysAreLowercased(t *testing.T) {
	t.Parallel()

	errs := Struct(sample{})
	require.NotNil(t, errs)
	assert.Equal(t, "Title is required", errs["title"])
}

func TestStruct_EmailMessage(t *testing.T) {
	t.Parallel()

	errs := Struct(sample{Title: "ok", Email: "not-an-email"})
	require.NotNil(t, errs)
	assert.Equal(t, "Must be a valid email address", errs["email"])
}

func TestErrors_ErrorString(t *testing.T) {
	t.Parallel()

	err := Errors{"title": "Title is required"}
	assert.Contains(t, err.Error(), "title: Title is required")
}
