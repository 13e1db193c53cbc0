package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Unauthenticated("no identity"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Validation("bad input"), http.StatusBadRequest},
		{Conflict("taken"), http.StatusConflict},
		{Unavailable("store down"), http.StatusServiceUnavailable},
		{Internal("oops"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err))
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeUnavailable, "store unreachable", cause)
	assert.ErrorIs(t, err, cause)
}

func TestWriteMasksUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal error", body["error"])
	assert.Equal(t, string(CodeInternal), body["code"])
}

func TestWriteAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, NotFound("post not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "post not found", body["error"])
	assert.Equal(t, string(CodeNotFound), body["code"])
}
