package mw

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestRequireAuth(t *testing.T) {
	auth := NewAuthenticator(testSecret, "sb-access-token")
	r := gin.New()
	r.GET("/private", auth.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})

	valid := signToken(t, testSecret, jwt.SigningMethodHS256, time.Now().Add(time.Hour))

	testCases := []struct {
		name       string
		prepare    func(req *http.Request)
		wantStatus int
	}{
		{name: "no token", prepare: func(req *http.Request) {}, wantStatus: http.StatusUnauthorized},
		{
			name:       "bearer header",
			prepare:    func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusOK,
		},
		{
			name: "session cookie",
			prepare: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: valid})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong secret",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, "other", jwt.SigningMethodHS256, time.Now().Add(time.Hour)))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS256, time.Now().Add(-time.Minute)))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unexpected algorithm",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.SigningMethodHS512, time.Now().Add(time.Hour)))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			tc.prepare(req)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
			} else {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}

func TestRequireAuth_NoSecret(t *testing.T) {
	auth := NewAuthenticator("", "")
	_, err := auth.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, time.Now().Add(time.Hour)))
	assert.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(NewClientLimiter(rate.Limit(1), 2)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResponseCache(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	var hits int32

	r := gin.New()
	r.Use(rc.Invalidate())
	r.GET("/stats", rc.Cache(), func(c *gin.Context) {
		n := atomic.AddInt32(&hits, 1)
		c.JSON(http.StatusOK, gin.H{"n": n})
	})
	r.POST("/things", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/broken", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
		return w
	}
	post := func(path string) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	first := get()
	assert.JSONEq(t, `{"n":1}`, first.Body.String())

	second := get()
	assert.JSONEq(t, `{"n":1}`, second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, rc.Len())

	post("/broken")
	assert.Equal(t, 1, rc.Len(), "failed writes keep the cache")

	post("/things")
	assert.Equal(t, 0, rc.Len())
	assert.JSONEq(t, `{"n":2}`, get().Body.String())
}
