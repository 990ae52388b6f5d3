package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

var testAuth = service.NewAuthService(&config.Config{JWTSecret: testSecret}, nil)

func signToken(t *testing.T, claims service.Claims) string {
	t.Helper()
	s, err := testAuth.SignClaims(claims)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func studentClaims(issuer string, expires time.Time) service.Claims {
	return service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UserID: 7,
		Matric: "A25CS0001",
	}
}

type fakeSessions struct{ err error }

func (f fakeSessions) ValidateStudentSession(context.Context, int, string) error { return f.err }

func protectedRouter(sessions SessionChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireStudentJWT(testAuth), CheckSingleDeviceSession(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Matric)
	})
	return r
}

func TestRequireStudentJWT(t *testing.T) {
	valid := signToken(t, studentClaims(service.TokenIssuer, time.Now().Add(time.Hour)))
	expired := signToken(t, studentClaims(service.TokenIssuer, time.Now().Add(-time.Hour)))
	foreign := signToken(t, studentClaims("another-app", time.Now().Add(time.Hour)))

	tests := []struct {
		name     string
		header   string
		query    string
		sessions SessionChecker
		status   int
		body     string
	}{
		{"bearer header", "Bearer " + valid, "", fakeSessions{}, http.StatusOK, "A25CS0001"},
		{"query token", "", valid, fakeSessions{}, http.StatusOK, "A25CS0001"},
		{"missing", "", "", fakeSessions{}, http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"expired", "Bearer " + expired, "", fakeSessions{}, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"garbage", "Bearer not-a-token", "", fakeSessions{}, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"foreign issuer", "Bearer " + foreign, "", fakeSessions{}, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"session replaced", "Bearer " + valid, "", fakeSessions{service.ErrSessionReplaced}, http.StatusUnauthorized, "SESSION_INVALIDATED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/me"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protectedRouter(tt.sessions).ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.body) {
				t.Fatalf("body %q does not contain %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d refused", i)
		}
	}
	ok, wait := rl.Allow("1.2.3.4")
	if ok || wait <= 0 || wait > 30*time.Second {
		t.Fatalf("third request = (%v, %v), want refused with wait <= 30s", ok, wait)
	}
	if ok, _ := rl.Allow("5.6.7.8"); !ok {
		t.Fatal("other IP refused")
	}

	now = now.Add(30 * time.Second)
	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Fatal("not refilled after 30s")
	}

	now = now.Add(10 * time.Minute)
	rl.evict(5 * time.Minute)
	if len(rl.visitors) != 0 {
		t.Fatalf("visitors = %d after evict, want 0", len(rl.visitors))
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))

	if first.Code != http.StatusNoContent || second.Code != http.StatusTooManyRequests {
		t.Fatalf("codes = %d, %d", first.Code, second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
}

func TestBrotli(t *testing.T) {
	big := strings.Repeat("timetable ", 500)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, big) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/xlsx", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte(big))
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/big")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("big: Content-Encoding = %q", w.Header().Get("Content-Encoding"))
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil || string(plain) != big {
		t.Fatalf("big: decoded %d bytes, err %v", len(plain), err)
	}

	if w := get("/small"); w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Fatalf("small: encoding %q body %q", w.Header().Get("Content-Encoding"), w.Body.String())
	}
	if w := get("/xlsx"); w.Header().Get("Content-Encoding") != "" || w.Body.String() != big {
		t.Fatalf("xlsx: encoding %q", w.Header().Get("Content-Encoding"))
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"status":404`, `"path":"/missing"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %s", out, want)
		}
	}
}
