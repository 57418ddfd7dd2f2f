package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}

type RecipeResponse struct {
	Message string         `json:"message,omitempty"`
	Recipe  *models.Recipe `json:"recipe"`
	Changed []string       `json:"changed,omitempty"`
}

type RecipeListResponse struct {
	TotalRecipes int64            `json:"totalRecipes"`
	TotalPages   int              `json:"totalPages"`
	CurrentPage  int              `json:"currentPage"`
	Recipes      []*models.Recipe `json:"recipes"`
}

type RecipeSearchResponse struct {
	Recipes []*models.Recipe `json:"recipes"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	Message      string      `json:"message"`
	User         UserSummary `json:"user"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func summarize(u *models.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// respondJSON encodes data before touching the writer so an encoding
// failure still produces a clean 500.
func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		s.logger.Error(r.Context(), "json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn(r.Context(), "response write failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, statusCode int, title, message string) {
	s.respondJSON(w, r, statusCode, ErrorResponse{
		Error:     title,
		Message:   message,
		RequestID: RequestIDFromContext(r.Context()),
	})
}
