package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/common"
)

func (s *Server) handleSeedUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.deps.Users.Seed(r.Context())
	if err != nil {
		s.writeFault(w, r, err, userFaults)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, UserResponse{Message: "User seeded successfully", User: summarize(user)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeBodyError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, validationMessage(err), "")
		return
	}

	user, err := s.deps.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeFault(w, r, err, userFaults)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, UserResponse{Message: "User registered successfully", User: summarize(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeBodyError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, validationMessage(err), "")
		return
	}

	res, err := s.deps.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeFault(w, r, err, userFaults)
		return
	}

	s.respondJSON(w, r, http.StatusOK, LoginResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		Message:      "Logged in successfully",
		User:         summarize(res.User),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	tokens, err := s.deps.Users.Refresh(r.Context(), req.RefreshToken)
	switch {
	case err == nil:
		s.respondJSON(w, r, http.StatusOK, TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		})
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", "Refresh Token is required")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		s.writeError(w, r, http.StatusForbidden, "Forbidden", "Refresh Token is expired")
	case errors.Is(err, common.ErrInvalidToken):
		s.writeError(w, r, http.StatusUnauthorized, "Unauthorized", "Refresh Token is invalid")
	default:
		s.writeFault(w, r, err, nil)
	}
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, MessageResponse{Message: "Token is valid"})
}
