package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		page        int
		limit       int
		wantPages   int
		wantHasNext bool
		wantHasPrev bool
	}{
		{name: "empty", total: 0, page: 1, limit: 20, wantPages: 0},
		{name: "single page", total: 5, page: 1, limit: 20, wantPages: 1},
		{name: "middle page", total: 45, page: 2, limit: 20, wantPages: 3, wantHasNext: true, wantHasPrev: true},
		{name: "last page", total: 40, page: 2, limit: 20, wantPages: 2, wantHasPrev: true},
		{name: "zero limit", total: 10, page: 1, limit: 0, wantPages: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeta(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.wantPages, m.Pages)
			assert.Equal(t, tt.wantHasNext, m.HasNext)
			assert.Equal(t, tt.wantHasPrev, m.HasPrev)
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"email": "Invalid email format"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "Invalid email format", resp.Error.Details["email"])
}

func TestJSONSuccessFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]string{"id": "1"})

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
