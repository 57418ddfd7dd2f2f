package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

// requireAuth admits requests carrying a valid access token and stores the
// caller's user id in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", "Authorization header is required")
			return
		}

		token := bearerToken(header)
		if token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", "Access Token is required")
			return
		}

		userID, err := s.deps.Users.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", "Access Token is expired")
				return
			}
			s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", "Access Token is invalid")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the credential from "Bearer <token>".
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
