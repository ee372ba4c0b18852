package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		data := map[string]string{"foo": "bar"}

		WriteJSON(rec, http.StatusOK, data)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		err := json.Unmarshal(rec.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("sets custom status codes", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusUnprocessableEntity, map[string]string{"error": "bad pact"})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("preserves headers set before the call, as the mock server listener does for X-Pact-Unrecognized-Request", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		rec.Header().Set("X-Pact-Unrecognized-Request", "true")
		WriteJSON(rec, http.StatusInternalServerError, map[string]string{"type": "RequestNotFound"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("X-Pact-Unrecognized-Request"))
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}

func TestWriteNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteNoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
