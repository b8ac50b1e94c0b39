package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/cashtrackr/cashtrackr-be/internal/api/respond"
	"github.com/cashtrackr/cashtrackr-be/internal/models"
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

type contextKey string

// userContextKey is the context key for the authenticated user.
const userContextKey = contextKey("authUser")

// TokenManager signs and verifies session tokens with a server-held
// secret. Verification fails closed: any signature mismatch, structural
// corruption or expiry yields an error, never a partial identity.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager issuing tokens valid for 24 hours.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: 24 * time.Hour}
}

// Issue creates a signed session token for the given user id.
func (m *TokenManager) Issue(userID int64) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a session token and returns the user id it was issued for.
func (m *TokenManager) Verify(tokenStr string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	if claims.UserID <= 0 {
		return 0, fmt.Errorf("token carries no user id")
	}
	return claims.UserID, nil
}

// UserResolver loads the public projection of a user by id.
type UserResolver interface {
	GetUserByID(id int64) (models.User, error)
}

// RequireAuth creates a middleware that authenticates the bearer token and
// attaches the resolved user to the request context. Every invalid-token
// path rejects with 401.
func RequireAuth(tokens *TokenManager, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := r.Header.Get("Authorization")
			if bearer == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized User")
				return
			}

			parts := strings.SplitN(bearer, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				respond.Error(w, http.StatusUnauthorized, "Invalid Token")
				return
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Invalid Token")
				return
			}

			user, err := users.GetUserByID(userID)
			if err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Msg("Bearer token references unknown user")
				respond.Error(w, http.StatusUnauthorized, "Invalid Token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user attached by RequireAuth.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
