package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ytdlp-gui/ytdlp-gui/server/config"
)

const TokenCookieName = "jwt-yt-dlp-gui"

const tokenTTL = 24 * time.Hour * 30

// IssueToken signs a session token for username with the configured secret.
func IssueToken(username string, now time.Time) (string, time.Time, error) {
	secret := config.Instance().Authentication.Secret
	if secret == "" {
		return "", time.Time{}, errors.New("authentication secret is not set")
	}

	expires := now.Add(tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expires, nil
}

func validateToken(raw string) error {
	secret := config.Instance().Authentication.Secret
	if secret == "" {
		return errors.New("authentication secret is not set")
	}

	token, err := jwt.ParseWithClaims(
		raw,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}

	return nil
}

// The token is looked up in the session cookie, the Authorization header
// and, for websocket upgrades, the token query parameter.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		if err := validateToken(raw); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
