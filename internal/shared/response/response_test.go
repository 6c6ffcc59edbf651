package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharederrors "github.com/quickai/server/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errMissing = errors.New("missing")

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOK(t *testing.T) {
	c, w := newContext()
	OK(c, gin.H{"content": "hello", "success": false})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "hello", body["content"])
}

func TestHandleError(t *testing.T) {
	mappings := []ErrorMapping{
		{Err: errMissing, Code: "NOT_FOUND", Message: "Creation not found"},
		{Err: sharederrors.ErrUnauthorized, Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Verbose: true},
	}

	t.Run("domain errors default to 200", func(t *testing.T) {
		c, w := newContext()
		handled := HandleError(c, fmt.Errorf("lookup: %w", errMissing), mappings)

		assert.True(t, handled)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "NOT_FOUND", body["code"])
		assert.Equal(t, "Creation not found", body["message"])
	})

	t.Run("verbose mapping reports wrapped text", func(t *testing.T) {
		c, w := newContext()
		HandleError(c, fmt.Errorf("%w: token expired", sharederrors.ErrUnauthorized), mappings)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, decode(t, w)["message"], "token expired")
	})

	t.Run("unmatched falls back", func(t *testing.T) {
		c, w := newContext()
		assert.False(t, HandleError(c, errors.New("other"), mappings))
		assert.Empty(t, w.Body.String())

		HandleErrorWithDefault(c, errors.New("other"), mappings)
		body := decode(t, w)
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.Equal(t, false, body["success"])
	})
}

func TestFromAppError(t *testing.T) {
	c, w := newContext()
	FromAppError(c, sharederrors.RateLimited("Too many requests"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.True(t, c.IsAborted())
	assert.Equal(t, "Too many requests", decode(t, w)["message"])
}
