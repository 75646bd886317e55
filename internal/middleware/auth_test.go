package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func signTestToken(t *testing.T, userID string, expiry time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(viper.GetString("jwt.secret_key")))
	assert.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	viper.Set("jwt.secret_key", "test-secret")
	InitAuthMiddleware(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value("userID").(string)
		w.Write([]byte(userID))
	})
	protected := AuthMiddleware(next)

	t.Run("valid token reaches the handler with the user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user1", time.Hour))
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user1", rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user1", -time.Hour))
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user1", time.Hour)+"x")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token rejects", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		InitAuthMiddleware(redisClient)
		defer InitAuthMiddleware(nil)

		token := signTestToken(t, "user1", time.Hour)
		redisMock.ExpectExists("blacklist:" + token).SetVal(1)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
