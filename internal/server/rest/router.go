package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "GET /health", s.handleHealth)
	s.handle(mux, "GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handle(mux, "POST /api/users/seed", s.handleSeedUser)
	s.handle(mux, "POST /api/users/register", s.handleRegister)
	s.handle(mux, "POST /api/users/login", s.handleLogin)
	s.handle(mux, "POST /api/users/refresh", s.handleRefresh)
	s.handle(mux, "GET /api/users/verify", s.requireAuth(s.handleVerify))

	s.handle(mux, "POST /api/recipes", s.requireAuth(s.acceptUpload(s.handleCreateRecipe)))
	s.handle(mux, "GET /api/recipes", s.requireAuth(s.handleListRecipes))
	s.handle(mux, "GET /api/recipes/advanced/search", s.requireAuth(s.handleSearchRecipes))
	s.handle(mux, "GET /api/recipes/{id}", s.requireAuth(s.handleGetRecipe))
	s.handle(mux, "PUT /api/recipes/{id}", s.requireAuth(s.acceptUpload(s.handleUpdateRecipe)))
	s.handle(mux, "DELETE /api/recipes/{id}", s.requireAuth(s.handleDeleteRecipe))

	s.handle(mux, "GET /uploads/{key...}", s.handleAsset)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "Not found",
			"The requested resource does not exist")
	})

	return mux
}

// handle registers h under pattern, instrumented with the pattern as its
// metrics label.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.metricsMiddleware(pattern, h))
}
