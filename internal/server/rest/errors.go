package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

// faultMapping turns one error kind into an HTTP answer. message receives
// the Fault subject.
type faultMapping struct {
	kind    error
	status  int
	title   string
	message func(subject string) string
}

var recipeFaults = []faultMapping{
	{common.ErrorInvalidID, http.StatusBadRequest, "Invalid recipe id", func(s string) string {
		return fmt.Sprintf("%q is not a valid recipe id", s)
	}},
	{common.ErrorNotFound, http.StatusNotFound, "Recipe not found", func(s string) string {
		return fmt.Sprintf("Recipe with id %q doesn't exist", s)
	}},
	{common.ErrorDuplicateName, http.StatusConflict, "Duplicate recipe name", func(s string) string {
		return fmt.Sprintf("A recipe with the name %q already exists", s)
	}},
	{common.ErrorNoMatch, http.StatusNotFound, "No recipes found", func(string) string {
		return "No recipes match the search criteria"
	}},
}

var userFaults = []faultMapping{
	{common.ErrorDuplicateEmail, http.StatusConflict, "User already exists", func(s string) string {
		return fmt.Sprintf("User with email %q already exists", s)
	}},
	{common.ErrorNotFound, http.StatusNotFound, "User not found", func(s string) string {
		return fmt.Sprintf("User with email %q doesn't exist", s)
	}},
	{common.ErrorInvalidPassword, http.StatusBadRequest, "Invalid password", func(string) string {
		return "The password you've entered is incorrect"
	}},
	{common.ErrorValidation, http.StatusBadRequest, "Validation failed", func(s string) string {
		return fmt.Sprintf("%q is invalid", s)
	}},
}

// writeFault answers with the first mapping matching err. Anything
// unmapped is logged and reported as a 500 without details.
func (s *Server) writeFault(w http.ResponseWriter, r *http.Request, err error, table []faultMapping) {
	var subject string
	var fault *common.Fault
	if errors.As(err, &fault) {
		subject = fault.Subject
	}

	for _, m := range table {
		if errors.Is(err, m.kind) {
			s.writeError(w, r, m.status, m.title, m.message(subject))
			return
		}
	}

	s.logger.Error(r.Context(), "request failed",
		"error", err,
		"request_id", RequestIDFromContext(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
	s.writeError(w, r, http.StatusInternalServerError, "Internal server error", "")
}
