// Package client talks to the RecipeBox REST API on behalf of the CLI. It
// keeps the caller's token pair in a SessionStore and transparently refreshes
// an expired access token once per request.
package client

import (
	"context"
	"time"
)

// Recipe mirrors the server's recipe representation.
type Recipe struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Description  string    `json:"description" yaml:"description"`
	Ingredients  []string  `json:"ingredients" yaml:"ingredients"`
	Instructions string    `json:"instructions" yaml:"instructions"`
	Image        string    `json:"image,omitempty" yaml:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"updatedAt"`
}

type RecipePage struct {
	TotalRecipes int64     `json:"totalRecipes" yaml:"totalRecipes"`
	TotalPages   int       `json:"totalPages" yaml:"totalPages"`
	CurrentPage  int       `json:"currentPage" yaml:"currentPage"`
	Recipes      []*Recipe `json:"recipes" yaml:"recipes"`
}

// RecipeInput carries the fields to send on create or update. Nil fields
// are omitted. ImagePath, when set, is uploaded as the recipe image.
type RecipeInput struct {
	Name         *string
	Description  *string
	Ingredients  []string
	Instructions *string
	ImagePath    string
}

// UpdateResult is the answer to an update.
type UpdateResult struct {
	Message string   `json:"message"`
	Recipe  *Recipe  `json:"recipe"`
	Changed []string `json:"changed,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// API is the set of server operations the CLI uses.
type API interface {
	Register(ctx context.Context, name, email string, password []byte) (*User, error)
	Login(ctx context.Context, email string, password []byte) (*User, error)
	Logout() error
	Verify(ctx context.Context) error
	ListRecipes(ctx context.Context, page, limit int) (*RecipePage, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	SearchRecipes(ctx context.Context, name string, ingredients []string) ([]*Recipe, error)
	CreateRecipe(ctx context.Context, in RecipeInput) (*Recipe, error)
	UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*UpdateResult, error)
	DeleteRecipe(ctx context.Context, id string) error
	DownloadImage(ctx context.Context, key, path string) (int64, error)
}
