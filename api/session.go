package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const sessionCookieName = "travel_session"

// sessionManager issues a signed cookie carrying an anonymous session id. The
// id only scopes the creation draft; there are no user accounts.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	logger zerolog.Logger
}

func newSessionManager(secret string, ttl time.Duration, secure bool) sessionManager {
	logger := log.With().Str("handlerName", "sessionManager").Logger()
	if secret == "" {
		logger.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
		secret = uuid.NewString()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return sessionManager{secret: []byte(secret), ttl: ttl, secure: secure, logger: logger}
}

func (m sessionManager) issue(sessionID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m sessionManager) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session token has no id")
	}
	return claims.ID, nil
}

// middleware puts the session id in the request context, starting a new
// session when the cookie is missing, expired or tampered with.
func (m sessionManager) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if sessionID, err := m.parse(cookie.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(ctxWithSessionID(r.Context(), sessionID)))
				return
			}
			m.logger.Debug().Msg("discarding invalid session cookie")
		}

		sessionID := uuid.NewString()
		now := time.Now()
		token, err := m.issue(sessionID, now)
		if err != nil {
			m.logger.Error().Err(err).Msg("failed to sign session token")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  now.Add(m.ttl),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(ctxWithSessionID(r.Context(), sessionID)))
	})
}
