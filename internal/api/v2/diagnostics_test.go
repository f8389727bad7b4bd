package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsFeedGating(t *testing.T) {
	t.Run("disabled config hides the feed", func(t *testing.T) {
		h := newTestController(t, false)

		rec := h.request(t, http.MethodGet, "/api/v2/diagnostics/images?debug=1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing debug param hides the feed", func(t *testing.T) {
		h := newTestController(t, true)

		rec := h.request(t, http.MethodGet, "/api/v2/diagnostics/images", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled and gated open", func(t *testing.T) {
		h := newTestController(t, true)

		rec := h.request(t, http.MethodGet, "/api/v2/diagnostics/images?debug=1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDiagnosticsFeedContent(t *testing.T) {
	h := newTestController(t, true)

	// Two validator calls produce two entries
	h.request(t, http.MethodGet, "/api/v2/images/src?src=https://cdn.example.com/x.webp", "")
	h.request(t, http.MethodGet, "/api/v2/images/src?src=broken", "")

	rec := h.request(t, http.MethodGet, "/api/v2/diagnostics/images?debug=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Summary struct {
			Total    int `json:"total"`
			Resolved int `json:"resolved"`
			Invalid  int `json:"invalid"`
		} `json:"summary"`
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Summary.Total)
	assert.Equal(t, 1, body.Summary.Resolved)
	assert.Equal(t, 1, body.Summary.Invalid)
	require.Len(t, body.Entries, 2)
	// Newest first
	assert.Equal(t, "broken", body.Entries[0]["raw_value"])
}

func TestDiagnosticsClear(t *testing.T) {
	h := newTestController(t, true)

	h.request(t, http.MethodGet, "/api/v2/images/src?src=broken", "")

	rec := h.request(t, http.MethodDelete, "/api/v2/diagnostics/images?debug=1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.request(t, http.MethodGet, "/api/v2/diagnostics/images?debug=1", "")
	var body struct {
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Summary.Total)
}
