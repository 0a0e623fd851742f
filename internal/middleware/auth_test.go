package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func guardedRequest(guard gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString("userEmail")})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"role":  "admin",
		"email": "admin@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthGuardAcceptsValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, adminClaims())
	w := guardedRequest(AdminAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestAuthGuardMissingToken(t *testing.T) {
	w := guardedRequest(AdminAuth(testSecret), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}

func TestAuthGuardMalformedHeader(t *testing.T) {
	w := guardedRequest(AdminAuth(testSecret), "Token abc.def.ghi")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}

func TestAuthGuardRejectsNonHS256Token(t *testing.T) {
	// same secret, different HMAC method: the guard only accepts HS256
	token := signToken(t, jwt.SigningMethodHS512, adminClaims())
	w := guardedRequest(AdminAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}

func TestAuthGuardRejectsExpiredToken(t *testing.T) {
	claims := adminClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, jwt.SigningMethodHS256, claims)
	w := guardedRequest(AdminAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}

func TestAuthGuardRejectsWrongRole(t *testing.T) {
	claims := adminClaims()
	claims["role"] = "customer"
	token := signToken(t, jwt.SigningMethodHS256, claims)
	w := guardedRequest(AdminAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", w.Code)
	}
}

func TestUserAuthExposesEmailClaim(t *testing.T) {
	claims := jwt.MapClaims{
		"email": "shopper@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := signToken(t, jwt.SigningMethodHS256, claims)
	w := guardedRequest(UserAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); !strings.Contains(got, "shopper@example.com") {
		t.Fatalf("email claim not exposed to handler: %s", got)
	}
}
