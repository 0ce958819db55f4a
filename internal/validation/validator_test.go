package validation

import (
	"testing"

	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Category string   `validate:"required,category"`
	Features []string `validate:"dive,feature"`
	Email    string   `validate:"required,email"`
}

func TestCatalogTags(t *testing.T) {
	v := New(catalog.Default())

	assert.NoError(t, v.Struct(sample{Category: "Startup", Features: []string{"auth", "push"}, Email: "a@b.co"}))

	err := v.Struct(sample{Category: "Spaceship", Features: []string{"auth", "teleport"}, Email: "a@b.co"})
	require.Error(t, err)

	errs := v.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "Category", errs[0].Field())
	assert.Equal(t, "category", errs[0].Tag())
	assert.Equal(t, "feature", errs[1].Tag())
}

func TestValidationErrorsOnOtherErrors(t *testing.T) {
	v := New(catalog.Default())
	assert.Nil(t, v.ValidationErrors(nil))
	assert.Nil(t, v.ValidationErrors(assert.AnError))
}
