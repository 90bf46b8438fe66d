package middleware

import (
	"context"
	"net/http"

	"github.com/MikhailRaia/url-genie/internal/auth"
	"github.com/rs/zerolog/log"
)

type contextKey string

// SessionIDKey is the context key holding the browser session id.
const SessionIDKey contextKey = "sessionID"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "genie_session"

// SessionMiddleware binds every request to a browser session using a JWT cookie.
type SessionMiddleware struct {
	jwtService *auth.JWTService
}

// NewSessionMiddleware creates a SessionMiddleware with the provided JWT service.
func NewSessionMiddleware(jwtService *auth.JWTService) *SessionMiddleware {
	return &SessionMiddleware{
		jwtService: jwtService,
	}
}

// Session ensures a session is present, issuing a token and cookie if needed.
func (s *SessionMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string

		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			claims, err := s.jwtService.ValidateToken(cookie.Value)
			if err == nil {
				sessionID = claims.SessionID
			} else {
				log.Debug().Err(err).Msg("Invalid session token, starting a new session")
			}
		}

		if sessionID == "" {
			sessionID = s.jwtService.NewSessionID()

			token, err := s.jwtService.GenerateToken(sessionID)
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate session token")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(s.jwtService.TTL().Seconds()),
			})

			log.Debug().Str("sessionID", sessionID).Msg("Started new session")
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionIDFromContext extracts the session id from context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}
