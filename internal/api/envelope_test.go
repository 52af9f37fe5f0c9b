package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/http/response"
)

func marshalEnvelope(t *testing.T, status string, v any) map[string]any {
	t.Helper()

	out, err := EnvelopeTransformer(nil, status, v)
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	return got
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	got := marshalEnvelope(t, "200", map[string]string{"slug": "club"})

	assert.Equal(t, map[string]any{
		"success": true,
		"data":    map[string]any{"slug": "club"},
	}, got)
}

func TestEnvelopeTransformer_DomainError(t *testing.T) {
	got := marshalEnvelope(t, "400", domainerrors.InvalidKey("slug", "is reserved"))

	assert.Equal(t, map[string]any{
		"success": false,
		"code":    "INVALID_KEY",
		"error":   "slug is reserved",
		"details": map[string]any{"field": "slug", "reason": "is reserved"},
	}, got)
}

func TestEnvelopeTransformer_APIError(t *testing.T) {
	RegisterErrorHandler()

	got := marshalEnvelope(t, "404", huma.NewError(http.StatusNotFound, "no such route"))

	assert.Equal(t, false, got["success"])
	assert.Equal(t, "NOT_FOUND", got["code"])
	assert.Equal(t, "no such route", got["error"])
}

func TestEnvelopeTransformer_AlreadyWrapped(t *testing.T) {
	env := response.Envelope{Success: true, Data: "x"}

	out, err := EnvelopeTransformer(nil, "200", env)
	require.NoError(t, err)
	assert.Equal(t, env, out)
}

func TestRegisterErrorHandler(t *testing.T) {
	RegisterErrorHandler()

	tests := []struct {
		name       string
		status     int
		errs       []error
		wantStatus int
		wantCode   string
	}{
		{"domain error wins", http.StatusInternalServerError, []error{domainerrors.Forbidden("admins only")}, http.StatusForbidden, "FORBIDDEN"},
		{"unprocessable becomes bad request", http.StatusUnprocessableEntity, nil, http.StatusBadRequest, "VALIDATION"},
		{"rate limited", http.StatusTooManyRequests, nil, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", http.StatusInternalServerError, []error{errors.New("boom")}, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := huma.NewError(tt.status, "message", tt.errs...)
			assert.Equal(t, tt.wantStatus, err.GetStatus())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}
