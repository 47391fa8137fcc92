package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorder(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// newGateTestRouter registers a stub resource protecting create and
// destroy, leaving list and retrieve open.
func newGateTestRouter() *gin.Engine {
	r := gin.New()
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	res := resource{
		protected: []string{actionCreate, actionDestroy},
		list:      ok,
		create:    ok,
		retrieve:  ok,
		destroy:   ok,
	}
	registerResource(r.Group("/api/v1"), "/things", res)
	return r
}

func accessTokenFor(t *testing.T, userID uint, email string) string {
	t.Helper()
	u := testUser()
	u.ID = userID
	u.Email = email
	signed, _, err := mintToken(u, tokenTypeAccess, 15*time.Minute)
	require.NoError(t, err)
	return signed
}

func TestGateOpenActionWithoutToken(t *testing.T) {
	r := newGateTestRouter()
	resp := performRequest(r, http.MethodGet, "/api/v1/things", nil, "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGateProtectedActionWithoutToken(t *testing.T) {
	r := newGateTestRouter()
	resp := performRequest(r, http.MethodPost, "/api/v1/things", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authentication credentials were not provided.")
}

func TestGateProtectedActionWithValidToken(t *testing.T) {
	r := newGateTestRouter()
	token := accessTokenFor(t, 42, "gate@example.com")
	resp := performRequest(r, http.MethodPost, "/api/v1/things", nil, token, "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGateInvalidTokenRejectedEvenOnOpenAction(t *testing.T) {
	r := newGateTestRouter()
	resp := performRequest(r, http.MethodGet, "/api/v1/things", nil, "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Given token not valid")
}

func TestGateRejectsRefreshTokenAsCredential(t *testing.T) {
	r := newGateTestRouter()
	signed, _, err := mintToken(testUser(), tokenTypeRefresh, time.Hour)
	require.NoError(t, err)
	resp := performRequest(r, http.MethodPost, "/api/v1/things", nil, signed, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Given token not valid")
}

func TestGateRejectsMalformedAuthorizationHeader(t *testing.T) {
	r := newGateTestRouter()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/things", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := newRecorder(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "space-delimited")
}

func TestGateSetsUserContext(t *testing.T) {
	r := gin.New()
	res := resource{
		protected: []string{actionRetrieve},
		retrieve: func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ctxUserID), "email": c.GetString(ctxEmail)})
		},
	}
	registerResource(r.Group("/api/v1"), "/things", res)

	token := accessTokenFor(t, 42, "gate@example.com")
	resp := performRequest(r, http.MethodGet, "/api/v1/things/1", nil, token, "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"user_id":42`)
	assert.Contains(t, resp.Body.String(), "gate@example.com")
}

func TestAuthRequiredWithoutToken(t *testing.T) {
	r := gin.New()
	r.PUT("/guarded", authRequired(), func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	resp := performRequest(r, http.MethodPut, "/guarded", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authentication credentials were not provided.")
}
