package validation_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/shelf/apps/server/internal/platform/validation"
	"github.com/tilsley/shelf/schemas"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newValidatedRouter mounts the middleware in front of routes that always
// answer 200, so any 400 comes from validation alone.
func newValidatedRouter(t *testing.T) *gin.Engine {
	t.Helper()

	mw, err := validation.New(schemas.OpenAPISpec)
	require.NoError(t, err)

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r := gin.New()
	r.Use(mw)
	r.POST("/files", ok)
	r.GET("/files/meta", ok)
	r.GET("/unlisted", ok)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Run("the embedded document loads and validates", func(t *testing.T) {
		_, err := validation.New(schemas.OpenAPISpec)
		require.NoError(t, err)
	})

	t.Run("a conforming upload passes through", func(t *testing.T) {
		r := newValidatedRouter(t)

		rec := serve(r, http.MethodPost, "/files", `{"content":"aGVsbG8=","name":"a.txt"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("a missing required body field is rejected", func(t *testing.T) {
		r := newValidatedRouter(t)

		rec := serve(r, http.MethodPost, "/files", `{"content":"aGVsbG8="}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("an unknown overwrite policy is rejected", func(t *testing.T) {
		r := newValidatedRouter(t)

		rec := serve(r, http.MethodPost, "/files",
			`{"content":"aGVsbG8=","name":"a.txt","overwrite":"maybe"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("a missing required query parameter is rejected", func(t *testing.T) {
		r := newValidatedRouter(t)

		rec := serve(r, http.MethodGet, "/files/meta?dir=docs", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("routes outside the document pass through untouched", func(t *testing.T) {
		r := newValidatedRouter(t)

		rec := serve(r, http.MethodGet, "/unlisted", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed spec bytes fail construction", func(t *testing.T) {
		_, err := validation.New([]byte("{not yaml"))
		require.Error(t, err)
	})
}
