package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("Order", "ORD1"))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Equal(t, "ORD1", appErr.ID)
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("order", "ORD1")))
}

func TestHTTPCode(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("Product", "P1"), http.StatusNotFound},
		{InvalidArgument("query", "missing"), http.StatusBadRequest},
		{Unauthorized("order", "ORD1"), http.StatusBadRequest},
		{Conflict("Order", "ORD1", "shipped"), http.StatusBadRequest},
		{Internal(errors.New("disk"), "failed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPCode(), tc.err.Error())
	}
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause, "store read failed")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store read failed: disk full", err.Error())
}
