package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
)

const (
	msgRecipeCreated   = "Recipe created successfully"
	msgRecipeUpdated   = "Recipe updated successfully"
	msgRecipeUnchanged = "No changes were made to the recipe"
	msgRecipeDeleted   = "Recipe deleted successfully"
)

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeRecipe(w, r)
	if err != nil {
		s.discardUpload(r.Context())
		s.writeBodyError(w, r, err)
		return
	}

	req := payload.toCreate()
	if err := s.validate.Struct(req); err != nil {
		s.discardUpload(r.Context())
		s.writeError(w, r, http.StatusBadRequest, validationMessage(err), "")
		return
	}

	recipe, err := s.deps.Recipes.Create(r.Context(), &models.Recipe{
		Name:         req.Name,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	}, uploadedImageKey(r.Context()))
	if err != nil {
		s.writeFault(w, r, err, recipeFaults)
		return
	}

	s.respondJSON(w, r, http.StatusCreated, RecipeResponse{Message: msgRecipeCreated, Recipe: recipe})
}

// handleListRecipes serves ?page=&limit=. Missing or malformed values fall
// back to the service defaults.
func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := s.deps.Recipes.List(r.Context(), page, limit)
	if err != nil {
		s.writeFault(w, r, err, recipeFaults)
		return
	}

	recipes := res.Recipes
	if recipes == nil {
		recipes = []*models.Recipe{}
	}

	s.respondJSON(w, r, http.StatusOK, RecipeListResponse{
		TotalRecipes: res.Total,
		TotalPages:   res.TotalPages,
		CurrentPage:  res.CurrentPage,
		Recipes:      recipes,
	})
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.deps.Recipes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeFault(w, r, err, recipeFaults)
		return
	}
	s.respondJSON(w, r, http.StatusOK, RecipeResponse{Recipe: recipe})
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeRecipe(w, r)
	if err != nil {
		s.discardUpload(r.Context())
		s.writeBodyError(w, r, err)
		return
	}

	if err := s.validate.Struct(payload); err != nil {
		s.discardUpload(r.Context())
		s.writeError(w, r, http.StatusBadRequest, validationMessage(err), "")
		return
	}

	res, err := s.deps.Recipes.Update(r.Context(), r.PathValue("id"), payload.toUpdate(), uploadedImageKey(r.Context()))
	if err != nil {
		s.writeFault(w, r, err, recipeFaults)
		return
	}

	msg := msgRecipeUpdated
	if res.Status == services.StatusNoop {
		msg = msgRecipeUnchanged
	}
	s.respondJSON(w, r, http.StatusOK, RecipeResponse{Message: msg, Recipe: res.Recipe, Changed: res.Changed})
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Recipes.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeFault(w, r, err, recipeFaults)
		return
	}
	s.respondJSON(w, r, http.StatusOK, MessageResponse{Message: msgRecipeDeleted})
}

// handleSearchRecipes serves ?name=&ingredients=a,b. Both filters are
// optional and combined with AND.
func (s *Server) handleSearchRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	found, err := s.deps.Recipes.Search(r.Context(), services.SearchCriteria{
		Name:        q.Get("name"),
		Ingredients: services.ParseIngredients(q.Get("ingredients")),
	})
	if err != nil {
		s.writeFault(w, r, err, recipeFaults)
		return
	}
	s.respondJSON(w, r, http.StatusOK, RecipeSearchResponse{Recipes: found})
}
